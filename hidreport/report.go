// Package hidreport builds fixed-size HID input report byte buffers for
// the keyboard, pointer and consumer-control endpoints. Every function
// here is pure: no I/O, no shared state, deterministic output for a given
// input.
package hidreport

import "github.com/kelexine/hid-gadget-module/hidgerr"

// KeyboardReportSize is the fixed boot-protocol keyboard report length:
// modifiers, reserved, and six key slots.
const KeyboardReportSize = 8

// PointerReportSize4 is the pointer report length without a horizontal
// wheel byte: buttons, dx, dy, vwheel.
const PointerReportSize4 = 4

// PointerReportSize5 is the pointer report length with a horizontal wheel
// byte appended.
const PointerReportSize5 = 5

// ConsumerReportSize is the fixed little-endian consumer-usage report
// length.
const ConsumerReportSize = 2

// BuildKeyboard encodes a modifier byte and up to six key usage slots into
// the 8-byte boot-protocol keyboard report: [modifiers, reserved=0, k0..k5].
// Unused slots (beyond len(slots), or explicitly zero) are zero. Slots
// past index 5 are ignored.
func BuildKeyboard(modifiers byte, slots [6]byte) [KeyboardReportSize]byte {
	var b [KeyboardReportSize]byte
	b[0] = modifiers
	b[1] = 0
	copy(b[2:8], slots[:])
	return b
}

// Clamp8 clamps a signed delta into the representable range of a signed
// byte, [-127, 127]. Note 127 rather than 128 on the negative side, per
// spec.md's explicit range, to keep encode/decode symmetric.
func Clamp8(v int) int8 {
	if v > 127 {
		v = 127
	}
	if v < -127 {
		v = -127
	}
	return int8(v)
}

// BuildPointer encodes a pointer report. size must be 4 or 5; with size 4,
// hwheel must be zero or ErrUnsupportedFeature is returned. Deltas outside
// [-127,127] are clamped, never rejected.
func BuildPointer(buttons byte, dx, dy, vwheel, hwheel int, size int) ([]byte, error) {
	if size != PointerReportSize4 && size != PointerReportSize5 {
		return nil, hidgerr.ErrUnsupportedFeature
	}
	cdx := Clamp8(dx)
	cdy := Clamp8(dy)
	cvw := Clamp8(vwheel)
	chw := Clamp8(hwheel)

	if size == PointerReportSize4 {
		if chw != 0 {
			return nil, hidgerr.ErrUnsupportedFeature
		}
		return []byte{buttons, byte(cdx), byte(cdy), byte(cvw)}, nil
	}
	return []byte{buttons, byte(cdx), byte(cdy), byte(cvw), byte(chw)}, nil
}

// BuildConsumer little-endian encodes a 16-bit consumer usage code. Usage
// 0 means "released".
func BuildConsumer(usage uint16) [ConsumerReportSize]byte {
	return [ConsumerReportSize]byte{byte(usage & 0xFF), byte(usage >> 8 & 0xFF)}
}

// ParseKeyboard is the inverse of BuildKeyboard, used by tests to verify
// the round-trip invariant in spec.md §4.2/§8.
func ParseKeyboard(b [KeyboardReportSize]byte) (modifiers byte, slots [6]byte) {
	modifiers = b[0]
	copy(slots[:], b[2:8])
	return
}

// ParseConsumer is the inverse of BuildConsumer.
func ParseConsumer(b [ConsumerReportSize]byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
