package interp_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/kelexine/hid-gadget-module/ducky/interp"
	"github.com/kelexine/hid-gadget-module/ducky/script"
	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/kelexine/hid-gadget-module/keymap"
	"github.com/kelexine/hid-gadget-module/ledstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterp(t *testing.T, src string) (*interp.Interpreter, *endpoint.Capture, *bytes.Buffer) {
	t.Helper()
	keymap.SetLocale("US")
	s, err := script.LoadReader(bytes.NewBufferString(src))
	require.NoError(t, err)

	reg, cap := endpoint.NewCapturingRegistry()
	em := emitter.New(emitter.Options{Registry: reg})
	t.Cleanup(func() { _ = em.Close() })

	e := env.New(nil)
	out := &bytes.Buffer{}
	in := interp.New(s, e, em, nil)
	in.Out = out
	return in, cap, out
}

func TestGotoSkipsToLabel(t *testing.T) {
	in, cap, _ := newTestInterp(t, ":START\nSTRING a\nGOTO END\nSTRING b\n:END\nSTRING c\n")
	require.NoError(t, in.Run())
	got := cap.Writes(endpoint.Keyboard)
	require.NotEmpty(t, got)
	// "b" should never have been typed: usage 5 is 'b'.
	for _, r := range got {
		assert.NotEqual(t, byte(5), r[2])
	}
}

func TestIfElseTakesTrueBranch(t *testing.T) {
	in, _, out := newTestInterp(t, "IF 1 == 1 THEN\nECHO yes\nELSE\nECHO no\nENDIF\n")
	require.NoError(t, in.Run())
	assert.Contains(t, out.String(), "yes")
	assert.NotContains(t, out.String(), "no")
}

func TestIfElseTakesFalseBranch(t *testing.T) {
	in, _, out := newTestInterp(t, "IF 1 == 2 THEN\nECHO yes\nELSE\nECHO no\nENDIF\n")
	require.NoError(t, in.Run())
	assert.Contains(t, out.String(), "no")
	assert.NotContains(t, out.String(), "yes")
}

func TestForNextIterates(t *testing.T) {
	in, _, out := newTestInterp(t, "FOR $i = 1 TO 3\nECHO $i\nNEXT\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "1\n2\n3\n", out.String())
}

func TestVarArithmeticAssignment(t *testing.T) {
	in, _, out := newTestInterp(t, "VAR $x = 2 + 3\nECHO $x\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "5\n", out.String())
}

func TestVarDivisionByZero(t *testing.T) {
	in, _, out := newTestInterp(t, "VAR $x = 5 / 0\nECHO $x\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "0\n", out.String())
}

func TestVarTextAssignment(t *testing.T) {
	in, _, out := newTestInterp(t, "VAR $name = world\nECHO hello $name\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "hello world\n", out.String())
}

func TestEchoSubstitutesVariable(t *testing.T) {
	in, _, out := newTestInterp(t, "$greeting = hi\nECHO $greeting there\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "hi there\n", out.String())
}

func TestRemBlockSkipped(t *testing.T) {
	in, _, out := newTestInterp(t, "REM_BLOCK\nECHO hidden\nEND_REM_BLOCK\nECHO visible\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "visible\n", out.String())
}

func TestBareWordModifierAndKey(t *testing.T) {
	in, cap, _ := newTestInterp(t, "CTRL ALT a\n")
	require.NoError(t, in.Run())
	got := cap.Writes(endpoint.Keyboard)
	require.NotEmpty(t, got)
	assert.Equal(t, keymap.ModLCtrl|keymap.ModLAlt, got[0][0])
	assert.Equal(t, byte(4), got[0][2])
}

func TestFunctionCallAndReturn(t *testing.T) {
	in, _, out := newTestInterp(t, "GREET\nECHO after\nFUNCTION GREET()\nECHO inside\nRETURN\nEND_FUNCTION\n")
	require.NoError(t, in.Run())
	assert.Equal(t, "inside\nafter\n", out.String())
}

func TestDiagnosticOnlyDirectives(t *testing.T) {
	in, _, out := newTestInterp(t, "ATTACKMODE HID\nLED G\nEXTENSION foo\n")
	require.NoError(t, in.Run())
	assert.Contains(t, out.String(), "[unsupported] ATTACKMODE HID")
}

func TestWaitForCapsOnUnblocksWhenLEDSet(t *testing.T) {
	h, w, err := endpoint.NewPipeHandle(endpoint.Keyboard)
	require.NoError(t, err)
	defer w.Close()
	reg := endpoint.NewRegistryWithHandles(map[endpoint.Identity]*endpoint.Handle{endpoint.Keyboard: h})
	leds := ledstate.NewReader(reg)

	s, err := script.LoadReader(bytes.NewBufferString("WAIT_FOR_CAPS_ON\nECHO done\n"))
	require.NoError(t, err)

	capReg, _ := endpoint.NewCapturingRegistry()
	em := emitter.New(emitter.Options{Registry: capReg})
	defer em.Close()

	out := &bytes.Buffer{}
	in := interp.New(s, env.New(leds), em, leds)
	in.Out = out

	go func() {
		time.Sleep(5 * time.Millisecond)
		_, _ = w.Write([]byte{ledstate.CapsLock})
	}()

	done := make(chan error, 1)
	go func() { done <- in.Run() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WAIT_FOR_CAPS_ON never unblocked")
	}
	assert.Contains(t, out.String(), "done")
}
