package keymap

// US keyboard/keypad HID usage codes (USB HID Usage Tables, page 0x07),
// reused verbatim from the USB specification — these values are not
// teacher-specific, they are the standard.
const (
	usageBackspace = 0x2A
	usageTab       = 0x2B
	usageEnter     = 0x28
	usageEscape    = 0x29
	usageSpace     = 0x2C
)

// usUsage maps an ASCII code point (0-127) to its US-layout HID keyboard
// usage code. Zero denotes "unmapped". Letters map to the usage produced
// whether or not SHIFT is held; case is disambiguated by usShiftRequired.
var usUsage = [128]byte{
	0x08: usageBackspace,
	0x09: usageTab,
	0x0A: usageEnter,
	0x0D: usageEnter,
	0x1B: usageEscape,
	0x20: usageSpace,

	'0': 0x27, '1': 0x1E, '2': 0x1F, '3': 0x20, '4': 0x21,
	'5': 0x22, '6': 0x23, '7': 0x24, '8': 0x25, '9': 0x26,

	'a': 0x04, 'b': 0x05, 'c': 0x06, 'd': 0x07, 'e': 0x08,
	'f': 0x09, 'g': 0x0A, 'h': 0x0B, 'i': 0x0C, 'j': 0x0D,
	'k': 0x0E, 'l': 0x0F, 'm': 0x10, 'n': 0x11, 'o': 0x12,
	'p': 0x13, 'q': 0x14, 'r': 0x15, 's': 0x16, 't': 0x17,
	'u': 0x18, 'v': 0x19, 'w': 0x1A, 'x': 0x1B, 'y': 0x1C, 'z': 0x1D,

	'A': 0x04, 'B': 0x05, 'C': 0x06, 'D': 0x07, 'E': 0x08,
	'F': 0x09, 'G': 0x0A, 'H': 0x0B, 'I': 0x0C, 'J': 0x0D,
	'K': 0x0E, 'L': 0x0F, 'M': 0x10, 'N': 0x11, 'O': 0x12,
	'P': 0x13, 'Q': 0x14, 'R': 0x15, 'S': 0x16, 'T': 0x17,
	'U': 0x18, 'V': 0x19, 'W': 0x1A, 'X': 0x1B, 'Y': 0x1C, 'Z': 0x1D,

	'-': 0x2D, '=': 0x2E, '[': 0x2F, ']': 0x30, '\\': 0x31,
	';': 0x33, '\'': 0x34, '`': 0x35, ',': 0x36, '.': 0x37, '/': 0x38,

	'_': 0x2D, '+': 0x2E, '{': 0x2F, '}': 0x30, '|': 0x31,
	':': 0x33, '"': 0x34, '~': 0x35, '<': 0x36, '>': 0x37, '?': 0x38,

	'!': 0x1E, '@': 0x1F, '#': 0x20, '$': 0x21, '%': 0x22,
	'^': 0x23, '&': 0x24, '*': 0x25, '(': 0x26, ')': 0x27,
}

// usShiftRequired is the subset of code points whose default production
// requires SHIFT to be held during the press.
var usShiftRequired = buildShiftSet(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"!@#$%^&*()_+{}|:\"~<>?",
)

func buildShiftSet(chars string) [128]bool {
	var set [128]bool
	for _, c := range chars {
		if c < 128 {
			set[c] = true
		}
	}
	return set
}
