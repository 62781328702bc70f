package script_test

import (
	"strings"
	"testing"

	"github.com/kelexine/hid-gadget-module/ducky/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *script.Script {
	t.Helper()
	s, err := script.LoadReader(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestLoadIndexesLabels(t *testing.T) {
	s := load(t, "REM hello\n:LOOP\nSTRING hi\nGOTO LOOP\n")
	require.Contains(t, s.Labels, "LOOP")
	assert.Equal(t, 1, s.Labels["LOOP"])
}

func TestLoadIndexesFunctionWithParams(t *testing.T) {
	s := load(t, "FUNCTION GREET(name)\nSTRING hi $name\nEND_FUNCTION\n")
	sig, ok := s.Functions["GREET"]
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, sig.Params)
	assert.Equal(t, 1, sig.StartLine)
}

func TestLoadIndexesFunctionNoParams(t *testing.T) {
	s := load(t, "FUNCTION DOIT()\nSTRING x\nEND_FUNCTION\n")
	sig, ok := s.Functions["DOIT"]
	require.True(t, ok)
	assert.Empty(t, sig.Params)
}

func TestLoadTrimsTrailingWhitespace(t *testing.T) {
	s := load(t, "STRING hi   \r\n")
	assert.Equal(t, "STRING hi", s.Lines[0])
}

func TestLoadEmptySource(t *testing.T) {
	s := load(t, "")
	assert.Empty(t, s.Lines)
	assert.Empty(t, s.Labels)
	assert.Empty(t, s.Functions)
}

func TestLoadFromStdinSentinel(t *testing.T) {
	// The "-" path only resolves os.Stdin inside Load; LoadReader is the
	// seam used for tests so no real stdin redirection is needed.
	s := load(t, ":A\n:B\n")
	assert.Len(t, s.Labels, 2)
}
