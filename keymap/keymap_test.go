package keymap_test

import (
	"testing"

	"github.com/kelexine/hid-gadget-module/keymap"
	"github.com/stretchr/testify/assert"
)

func TestUSBasicMapping(t *testing.T) {
	assert.Equal(t, byte(0x04), keymap.US.Usage('a'))
	assert.False(t, keymap.US.ShiftRequired('a'))
	assert.Equal(t, byte(0x05), keymap.US.Usage('B'))
	assert.True(t, keymap.US.ShiftRequired('B'))
	assert.Equal(t, byte(0x1E), keymap.US.Usage('!'))
	assert.True(t, keymap.US.ShiftRequired('!'))
}

func TestUSControlCodes(t *testing.T) {
	assert.Equal(t, byte(42), keymap.US.Usage('\b'))
	assert.Equal(t, byte(43), keymap.US.Usage('\t'))
	assert.Equal(t, byte(40), keymap.US.Usage('\r'))
	assert.Equal(t, byte(41), keymap.US.Usage(0x1B))
	assert.Equal(t, byte(44), keymap.US.Usage(' '))
}

func TestUnmappedIsZero(t *testing.T) {
	assert.Equal(t, byte(0), keymap.US.Usage(0x01))
}

func TestSetLocaleUnknownFallsBackToUS(t *testing.T) {
	defer keymap.SetLocale("US")
	ok := keymap.SetLocale("KLINGON")
	assert.False(t, ok)
	assert.Equal(t, "US", keymap.Active().Name)
}

func TestSetLocaleDE(t *testing.T) {
	defer keymap.SetLocale("US")
	ok := keymap.SetLocale("de")
	assert.True(t, ok)
	assert.Equal(t, "DE", keymap.Active().Name)
}

func TestLookupModifierAliases(t *testing.T) {
	bit, ok := keymap.LookupModifier("control")
	assert.True(t, ok)
	assert.Equal(t, keymap.ModLCtrl, bit)

	bit, ok = keymap.LookupModifier("windows")
	assert.True(t, ok)
	assert.Equal(t, keymap.ModLGui, bit)

	_, ok = keymap.LookupModifier("nonsense")
	assert.False(t, ok)
}

func TestLookupFnKeyCaseInsensitive(t *testing.T) {
	usage, ok := keymap.LookupFnKey("enter")
	assert.True(t, ok)
	assert.Equal(t, byte(0x28), usage)
}

func TestLookupConsumerKey(t *testing.T) {
	usage, ok := keymap.LookupConsumerKey("vol+")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x00E9), usage)
}
