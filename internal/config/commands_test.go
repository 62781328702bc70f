package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/internal/config"
	"github.com/kelexine/hid-gadget-module/ledstate"
)

func TestBuildEmitterWithMockNeverReturnsNil(t *testing.T) {
	g := &config.Globals{Mock: true, KeyDelayMS: 5}
	em := config.BuildEmitter(g, nil, nil)
	require.NotNil(t, em)
	defer em.Close()

	assert.NoError(t, em.TypeSequence(0, "a", false))
}

func TestBuildEmitterSelectsFiveBytePointerReport(t *testing.T) {
	g := &config.Globals{Mock: true, PointerReportSize: 5, PointerHScroll: true}
	em := config.BuildEmitter(g, nil, nil)
	require.NotNil(t, em)
	defer em.Close()

	assert.NoError(t, em.PointerScroll(1, 1))
}

func TestConfigInitWritesTemplateAndRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "hidg.json")

	init := config.ConfigInit{Output: dest, Format: "json"}
	require.NoError(t, init.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keyboarddev")

	require.Error(t, init.Run())

	init.Force = true
	assert.NoError(t, init.Run())
}

func TestPreseedVarsReadsCompanionFile(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "payload.txt")
	require.NoError(t, os.WriteFile(scriptPath, []byte("REM hi\n"), 0o644))
	varsPath := filepath.Join(dir, "payload_vars.ducky")
	require.NoError(t, os.WriteFile(varsPath, []byte("VAR $greeting = hello\n$count = 3\n"), 0o644))

	g := &config.Globals{Mock: true}
	em := config.BuildEmitter(g, nil, nil)
	defer em.Close()
	leds := ledstate.NewReader(em.Registry())
	e := env.New(leds)

	require.NoError(t, config.PreseedVarsForTest(e, em, leds, nil, scriptPath))

	got, ok := e.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	got, ok = e.Get("count")
	require.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestPreseedVarsSkipsStdinSentinel(t *testing.T) {
	g := &config.Globals{Mock: true}
	em := config.BuildEmitter(g, nil, nil)
	defer em.Close()
	leds := ledstate.NewReader(em.Registry())
	e := env.New(leds)

	require.NoError(t, config.PreseedVarsForTest(e, em, leds, nil, "-"))
	_, ok := e.Get("greeting")
	assert.False(t, ok)
}

func TestButtonByNameDefaultsToLeft(t *testing.T) {
	assert.Equal(t, emitter.ButtonLeft, config.ButtonByNameForTest("unknown"))
	assert.Equal(t, emitter.ButtonRight, config.ButtonByNameForTest("right"))
	assert.Equal(t, emitter.ButtonMiddle, config.ButtonByNameForTest("middle"))
}
