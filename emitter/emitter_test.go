package emitter_test

import (
	"testing"

	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/kelexine/hid-gadget-module/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRawLogger struct {
	endpoints []string
	logged    [][]byte
}

func (f *fakeRawLogger) Log(endpoint string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.endpoints = append(f.endpoints, endpoint)
	f.logged = append(f.logged, cp)
}

func newTestEmitter(t *testing.T) (*emitter.Emitter, *endpoint.Capture) {
	t.Helper()
	reg, cap := endpoint.NewCapturingRegistry()
	e := emitter.New(emitter.Options{Registry: reg})
	t.Cleanup(func() { _ = e.Close() })
	return e, cap
}

func TestTypeSequenceScenario1(t *testing.T) {
	keymap.SetLocale("US")
	e, cap := newTestEmitter(t)

	require.NoError(t, e.TypeSequence(0, "aB!", false))

	got := cap.Writes(endpoint.Keyboard)
	want := [][]byte{
		{0, 0, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{2, 0, 5, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{2, 0, 30, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	assert.Equal(t, want, got)
}

func TestTypeSequenceNamedKeyHold(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.TypeSequence(0, "ENTER", true))
	got := cap.Writes(endpoint.Keyboard)
	assert.Equal(t, [][]byte{{0, 0, 0x28, 0, 0, 0, 0, 0}}, got)
}

func TestTypeSequenceModifiersOnlyNoRelease(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.TypeSequence(keymap.ModLCtrl, "", false))
	got := cap.Writes(endpoint.Keyboard)
	assert.Equal(t, [][]byte{{keymap.ModLCtrl, 0, 0, 0, 0, 0, 0, 0}}, got)
}

func TestHoldIdempotence(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.Hold("a"))
	require.NoError(t, e.Hold("a"))
	got := cap.Writes(endpoint.Keyboard)
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, byte(4), got[1][2])
}

func TestHoldModifierIdempotent(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.Hold("ctrl"))
	require.NoError(t, e.Hold("ctrl"))
	got := cap.Writes(endpoint.Keyboard)
	for _, r := range got {
		assert.Equal(t, keymap.ModLCtrl, r[0])
	}
}

func TestHoldSixSlotsDropsNewest(t *testing.T) {
	e, _ := newTestEmitter(t)
	for _, c := range "abcdef" {
		require.NoError(t, e.Hold(string(c)))
	}
	// seventh press should be silently dropped, not error
	require.NoError(t, e.Hold("g"))
}

func TestReleaseAllKeyboardZeroes(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.Hold("a"))
	require.NoError(t, e.ReleaseAllKeyboard())
	got := cap.Writes(endpoint.Keyboard)
	last := got[len(got)-1]
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, last)
}

func TestPointerScrollScenario(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.PointerScroll(300, 0))
	got := cap.Writes(endpoint.Pointer)
	require.Len(t, got, 2)
	assert.Equal(t, []byte{0, 0, 0, 127}, got[0])
	assert.Equal(t, []byte{0, 0, 0, 0}, got[1])
}

func TestPointerClickScenario(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.PointerClick(emitter.ButtonRight))
	got := cap.Writes(endpoint.Pointer)
	require.Len(t, got, 2)
	assert.Equal(t, []byte{emitter.ButtonRight, 0, 0, 0}, got[0])
	assert.Equal(t, []byte{0, 0, 0, 0}, got[1])
}

func TestPointerClickPreservesPriorLatch(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.PointerPress(emitter.ButtonLeft))
	require.NoError(t, e.PointerClick(emitter.ButtonRight))
	got := cap.Writes(endpoint.Pointer)
	// press report, then click transient (left|right), then settle back to left
	require.Len(t, got, 3)
	assert.Equal(t, []byte{emitter.ButtonLeft, 0, 0, 0}, got[0])
	assert.Equal(t, []byte{emitter.ButtonLeft | emitter.ButtonRight, 0, 0, 0}, got[1])
	assert.Equal(t, []byte{emitter.ButtonLeft, 0, 0, 0}, got[2])
}

func TestConsumerTapScenario(t *testing.T) {
	e, cap := newTestEmitter(t)
	require.NoError(t, e.SendConsumerTap("VOL+"))
	got := cap.Writes(endpoint.Consumer)
	require.Len(t, got, 2)
	assert.Equal(t, []byte{0xE9, 0x00}, got[0])
	assert.Equal(t, []byte{0x00, 0x00}, got[1])
}

func TestUnknownConsumerKey(t *testing.T) {
	e, _ := newTestEmitter(t)
	err := e.SendConsumerTap("NOT_A_KEY")
	assert.Error(t, err)
}

func TestRawLoggerReceivesEveryWrittenReport(t *testing.T) {
	reg, cap := endpoint.NewCapturingRegistry()
	raw := &fakeRawLogger{}
	e := emitter.New(emitter.Options{Registry: reg, RawLogger: raw})
	t.Cleanup(func() { _ = e.Close() })

	require.NoError(t, e.SendConsumerTap("VOL+"))

	got := cap.Writes(endpoint.Consumer)
	require.Len(t, raw.logged, len(got))
	for i := range got {
		assert.Equal(t, got[i], raw.logged[i])
		assert.Equal(t, "consumer", raw.endpoints[i])
	}
}
