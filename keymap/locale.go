// Package keymap holds the character-to-HID-usage tables, the
// shift-required sets, and the named-key/consumer-key catalogs used by
// the emitter to translate symbolic input into HID usage codes.
package keymap

import (
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"
)

// Locale is an immutable pair of tables: ASCII usage codes, and the set
// of code points whose production requires SHIFT.
type Locale struct {
	Name          string
	usage         [128]byte
	shiftRequired [128]bool
	// transcode, when non-nil, maps an incoming byte through a locale
	// charset before the usage lookup. US needs no transcoding (it is
	// already 7-bit ASCII); locales layered on top of a different
	// code page populate this so non-ASCII bytes still resolve.
	transcode func(b byte) byte
}

// Usage returns the HID usage code for c, or 0 if unmapped.
func (l Locale) Usage(c byte) byte {
	idx := c
	if l.transcode != nil {
		idx = l.transcode(c)
	}
	if idx >= 128 {
		return 0
	}
	return l.usage[idx]
}

// ShiftRequired reports whether c requires SHIFT to be held for this
// locale's default production.
func (l Locale) ShiftRequired(c byte) bool {
	idx := c
	if l.transcode != nil {
		idx = l.transcode(c)
	}
	if idx >= 128 {
		return false
	}
	return l.shiftRequired[idx]
}

// US is the default locale, required to be fully populated per spec.
var US = Locale{Name: "US", usage: usUsage, shiftRequired: usShiftRequired}

// DE is a partial stand-in locale demonstrating the charmap-backed
// transcode path; it is not a complete German layout (spec.md's
// Non-goals exclude exhaustive Unicode coverage), it only proves that a
// locale other than US can route through golang.org/x/text/encoding.
var DE = Locale{
	Name:          "DE",
	usage:         usUsage,
	shiftRequired: usShiftRequired,
	transcode: func(b byte) byte {
		// Windows-1252 (superset of Latin-1) is the nearest charmap to
		// what a German code page would decode extended bytes as; ASCII
		// passes through unchanged, and anything that decodes above
		// ASCII becomes 0 (unmapped) so lookups never index out of range.
		r := charmap.Windows1252.DecodeByte(b)
		if r < 128 {
			return byte(r)
		}
		return 0
	},
}

var (
	mu     sync.RWMutex
	active = US
	known  = map[string]Locale{
		"US": US,
		"DE": DE,
	}
)

// Active returns the currently active locale.
func Active() Locale {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// SetLocale switches the active locale by name (case-insensitive).
// Unknown locale names fall back to US and report ok=false so the caller
// can emit a warning, per spec.md §4.3.
func SetLocale(name string) (ok bool) {
	mu.Lock()
	defer mu.Unlock()
	l, found := known[strings.ToUpper(name)]
	if !found {
		active = US
		return false
	}
	active = l
	return true
}
