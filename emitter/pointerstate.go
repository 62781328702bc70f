package emitter

import (
	"context"

	"github.com/qmuntal/stateless"
)

type pointerState int

const (
	pointerStateIdle pointerState = iota
	pointerStateLatched
	pointerStateTransient
)

type pointerTrigger int

const (
	triggerPress pointerTrigger = iota
	triggerReleaseAll
	triggerClickDown
	triggerClickSettle
)

// pointerLatch implements the pointer-button state machine described in
// spec.md §4.4 ("State machine (pointer)": Idle, Latched(buttons),
// Transient(buttons)) with an explicit state-machine library rather than
// a hand-rolled switch, matching the broader example pool's own
// preference for modeling device lifecycles this way.
type pointerLatch struct {
	sm      *stateless.StateMachine
	buttons byte
	prior   byte
}

func newPointerLatch() *pointerLatch {
	p := &pointerLatch{}
	sm := stateless.NewStateMachine(pointerStateIdle)

	sm.Configure(pointerStateIdle).
		Permit(triggerPress, pointerStateLatched).
		Permit(triggerClickDown, pointerStateTransient).
		PermitReentry(triggerReleaseAll).
		OnEntryFrom(triggerReleaseAll, func(_ context.Context, _ ...any) error {
			p.buttons = 0
			return nil
		})

	sm.Configure(pointerStateLatched).
		PermitReentry(triggerPress).
		PermitReentry(triggerReleaseAll).
		Permit(triggerClickDown, pointerStateTransient).
		OnEntryFrom(triggerPress, func(_ context.Context, args ...any) error {
			p.buttons |= args[0].(byte)
			return nil
		}).
		OnEntryFrom(triggerReleaseAll, func(_ context.Context, _ ...any) error {
			p.buttons = 0
			return nil
		}).
		OnEntryFrom(triggerClickSettle, func(_ context.Context, _ ...any) error {
			p.buttons = p.prior
			return nil
		})

	sm.Configure(pointerStateTransient).
		Permit(triggerClickSettle, pointerStateLatched).
		OnEntryFrom(triggerClickDown, func(_ context.Context, args ...any) error {
			p.prior = p.buttons
			p.buttons = p.prior | args[0].(byte)
			return nil
		})

	p.sm = sm
	return p
}

// Press latches button into the currently-pressed set and returns the
// resulting button mask.
func (p *pointerLatch) Press(button byte) byte {
	_ = p.sm.Fire(triggerPress, button)
	return p.buttons
}

// ReleaseAll clears every latched button and returns 0.
func (p *pointerLatch) ReleaseAll() byte {
	_ = p.sm.Fire(triggerReleaseAll, byte(0))
	return p.buttons
}

// Click presses button transiently then settles back to whatever was
// latched before the click, per the Transient({b}) -> Latched(latched)
// transition in spec.md §4.4. It returns the transient (pressed) mask and
// the settled mask, for the two reports pointer_click writes.
func (p *pointerLatch) Click(button byte) (transient byte, settled byte) {
	_ = p.sm.Fire(triggerClickDown, button)
	transient = p.buttons
	_ = p.sm.Fire(triggerClickSettle)
	settled = p.buttons
	return
}

// Current returns the presently latched button mask without mutating
// state.
func (p *pointerLatch) Current() byte {
	return p.buttons
}
