package env_test

import (
	"os"
	"testing"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptVarTakesPrecedence(t *testing.T) {
	e := env.New(nil)
	e.Set("x", "hello")
	v, ok := e.Get("$x")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestProcessEnvLookup(t *testing.T) {
	os.Setenv("HIDG_TEST_VAR", "fromenv")
	defer os.Unsetenv("HIDG_TEST_VAR")
	e := env.New(nil)
	v, ok := e.Get("HIDG_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "fromenv", v)
}

func TestOSDefaultsToWindows(t *testing.T) {
	os.Unsetenv("TARGET_OS")
	e := env.New(nil)
	v, ok := e.Get("_OS")
	require.True(t, ok)
	assert.Equal(t, "WINDOWS", v)
}

func TestOSRespectsTargetOSEnv(t *testing.T) {
	os.Setenv("TARGET_OS", "linux")
	defer os.Unsetenv("TARGET_OS")
	e := env.New(nil)
	v, _ := e.Get("_OS")
	assert.Equal(t, "LINUX", v)
}

func TestLEDVarsWithNilReader(t *testing.T) {
	e := env.New(nil)
	v, ok := e.Get("_CAPSLOCK_ON")
	require.True(t, ok)
	assert.Equal(t, "FALSE", v)
}

func TestConstantOSTags(t *testing.T) {
	e := env.New(nil)
	for _, tag := range []string{"WINDOWS", "LINUX", "MACOS"} {
		v, ok := e.Get(tag)
		require.True(t, ok)
		assert.Equal(t, tag, v)
	}
}

func TestUnknownNameAbsent(t *testing.T) {
	e := env.New(nil)
	_, ok := e.Get("NOT_A_REAL_VAR_XYZ")
	assert.False(t, ok)
}

func TestRandomIntInRange(t *testing.T) {
	e := env.New(nil)
	v, ok := e.Get("_RANDOM_INT")
	require.True(t, ok)
	assert.Regexp(t, `^[0-9]{1,4}$`, v)
}

func TestBuildNumberFallsBackToZero(t *testing.T) {
	os.Setenv("TARGET_OS", "PLAN9")
	defer os.Unsetenv("TARGET_OS")
	e := env.New(nil)
	v, _ := e.Get("_BUILD_NUMBER")
	assert.Equal(t, "0", v)
}
