package emitter

import "time"

// Pointer button bitmasks, LSB per spec.md §3.
const (
	ButtonLeft   byte = 1 << 0
	ButtonRight  byte = 1 << 1
	ButtonMiddle byte = 1 << 2
)

const pointerClickSettleDelay = 30 * time.Millisecond
const pointerScrollSettleDelay = 10 * time.Millisecond

// PointerMove writes one report carrying dx/dy deltas and the currently
// latched button mask, with zero wheel movement.
func (e *Emitter) PointerMove(dx, dy int) error {
	e.mu.Lock()
	buttons := e.pointer.Current()
	e.mu.Unlock()
	return e.writePointer(buttons, dx, dy, 0, 0)
}

// PointerClick presses button, waits 30ms, then releases — settling back
// to whatever was latched before the click (spec.md §4.4, §8 scenario 3).
func (e *Emitter) PointerClick(button byte) error {
	e.mu.Lock()
	transient, _ := e.pointer.Click(button)
	e.mu.Unlock()
	if err := e.writePointer(transient, 0, 0, 0, 0); err != nil {
		return err
	}
	e.sleep(pointerClickSettleDelay)
	e.mu.Lock()
	settled := e.pointer.Current()
	e.mu.Unlock()
	return e.writePointer(settled, 0, 0, 0, 0)
}

// PointerPress latches button (OR'd into the current mask) and writes one
// report.
func (e *Emitter) PointerPress(button byte) error {
	e.mu.Lock()
	buttons := e.pointer.Press(button)
	e.mu.Unlock()
	return e.writePointer(buttons, 0, 0, 0, 0)
}

// PointerRelease clears every latched button and writes one all-zero
// button report.
func (e *Emitter) PointerRelease() error {
	e.mu.Lock()
	buttons := e.pointer.ReleaseAll()
	e.mu.Unlock()
	return e.writePointer(buttons, 0, 0, 0, 0)
}

// PointerScroll writes one report with the clamped wheel deltas, waits
// 10ms, then writes a fully-zeroed report (spec.md §8 "Scroll
// quiescence"). If h is non-zero but horizontal scroll is not enabled for
// the configured report size, h is dropped with a warning.
func (e *Emitter) PointerScroll(v, h int) error {
	e.mu.Lock()
	buttons := e.pointer.Current()
	e.mu.Unlock()

	if h != 0 && !e.pointerHScroll {
		e.log.Warn("horizontal scroll not enabled, ignoring", "h", h)
		h = 0
	}
	if err := e.writePointer(buttons, 0, 0, v, h); err != nil {
		return err
	}
	e.sleep(pointerScrollSettleDelay)
	return e.writePointer(0, 0, 0, 0, 0)
}
