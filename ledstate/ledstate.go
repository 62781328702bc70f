// Package ledstate reads the most recent keyboard LED output report byte
// (Caps/Num/Scroll lock) from the keyboard endpoint.
package ledstate

import "github.com/kelexine/hid-gadget-module/endpoint"

// LED bitmasks per spec.md §4.5.
const (
	NumLock    byte = 0x01
	CapsLock   byte = 0x02
	ScrollLock byte = 0x04
)

// Reader caches the last byte read from the keyboard endpoint's output
// report so a read failure doesn't erase previously known LED state.
type Reader struct {
	handle *endpoint.Handle
	last   byte
}

// NewReader builds a Reader over the keyboard endpoint handle in reg. The
// handle may be nil if the keyboard endpoint was never resolved; queries
// then always return the zero value.
func NewReader(reg *endpoint.Registry) *Reader {
	return &Reader{handle: reg.Handle(endpoint.Keyboard)}
}

// Poll drains every currently available byte from the keyboard endpoint's
// read side and returns the most recent one. If nothing could be read
// (endpoint missing, or nothing pending), the last cached value is
// returned, or zero if nothing has ever been read.
func (r *Reader) Poll() byte {
	if r.handle == nil {
		return r.last
	}
	if b, ok := r.handle.ReadLatestByte(); ok {
		r.last = b
	}
	return r.last
}

// CapsOn, NumOn and ScrollOn are convenience predicates over Poll.
func (r *Reader) CapsOn() bool   { return r.Poll()&CapsLock != 0 }
func (r *Reader) NumOn() bool    { return r.Poll()&NumLock != 0 }
func (r *Reader) ScrollOn() bool { return r.Poll()&ScrollLock != 0 }
