package endpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryMockFallback(t *testing.T) {
	dir := t.TempDir()
	reg := endpoint.NewRegistry(endpoint.Options{DeviceDir: dir, Mock: true})
	t.Cleanup(func() { _ = reg.Close() })

	for _, id := range []endpoint.Identity{endpoint.Keyboard, endpoint.Pointer, endpoint.Consumer} {
		h := reg.Handle(id)
		require.NotNil(t, h)
		assert.NoError(t, h.Write([]byte{1, 2, 3}))
	}
}

func TestDiscoveryMissingSlotWithoutMock(t *testing.T) {
	dir := t.TempDir()
	reg := endpoint.NewRegistry(endpoint.Options{DeviceDir: dir, Mock: false})
	t.Cleanup(func() { _ = reg.Close() })

	assert.Nil(t, reg.Handle(endpoint.Keyboard))
}

func TestDiscoveryEnvOverride(t *testing.T) {
	dir := t.TempDir()
	fifoPath := filepath.Join(dir, "fake-keyboard")
	require.NoError(t, os.WriteFile(fifoPath, nil, 0o644))
	// A regular file is not a character device, so the override must be
	// rejected and the slot left unresolved.
	t.Setenv("KEYBOARD_DEV", fifoPath)
	reg := endpoint.NewRegistry(endpoint.Options{DeviceDir: dir})
	t.Cleanup(func() { _ = reg.Close() })
	assert.Nil(t, reg.Handle(endpoint.Keyboard))
}
