// Package emitter is the stateful facade that turns symbolic actions
// (characters, named keys, modifier combinations, pointer deltas,
// consumer usages) into exact HID report byte sequences written through
// an endpoint.Registry, enforcing press/release framing, inter-event
// delays, and latched modifier/button state.
package emitter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/kelexine/hid-gadget-module/hidreport"
	"github.com/kelexine/hid-gadget-module/internal/log"
	"github.com/kelexine/hid-gadget-module/keymap"
)

// DefaultKeyDelay is the inter-key delay the CLI applies when KEY_DELAY_MS
// is unset (the default of its key-delay-ms flag).
const DefaultKeyDelay = 10 * time.Millisecond

// MaxKeyDelay is the upper clamp for the configurable inter-key delay.
const MaxKeyDelay = 5000 * time.Millisecond

// Emitter owns all latched state (held modifiers, held key slots, latched
// pointer buttons) and is the sole writer to the three HID endpoints.
// Every public operation is synchronous; a single process-wide mutex
// serializes the mutation of latched state (the registry's Handle already
// serializes writes per endpoint).
type Emitter struct {
	reg *endpoint.Registry
	log *slog.Logger
	raw log.RawLogger

	mu        sync.Mutex
	heldMods  byte
	heldSlots [6]byte

	pointer *pointerLatch

	keyDelay        time.Duration
	pointerReportSz int
	pointerHScroll  bool

	// sleep is overridable in tests to avoid real delays.
	sleep func(time.Duration)
}

// Options configures a new Emitter.
type Options struct {
	Registry        *endpoint.Registry
	Logger          *slog.Logger
	RawLogger       log.RawLogger
	KeyDelay        time.Duration
	PointerReportSz int
	PointerHScroll  bool
}

// New constructs an Emitter over reg. KeyDelay is clamped to
// [0, MaxKeyDelay]; PointerReportSz defaults to 4.
func New(opts Options) *Emitter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.KeyDelay
	if delay < 0 {
		delay = 0
	}
	if delay > MaxKeyDelay {
		delay = MaxKeyDelay
	}
	sz := opts.PointerReportSz
	if sz != hidreport.PointerReportSize4 && sz != hidreport.PointerReportSize5 {
		sz = hidreport.PointerReportSize4
	}
	raw := opts.RawLogger
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Emitter{
		reg:             opts.Registry,
		log:             logger,
		raw:             raw,
		keyDelay:        delay,
		pointerReportSz: sz,
		pointerHScroll:  opts.PointerHScroll && sz == hidreport.PointerReportSize5,
		pointer:         newPointerLatch(),
		sleep:           time.Sleep,
	}
}

// SetLocale switches the active character table. Unknown locale names
// fall back to US and a warning is logged (spec.md §4.3/§4.4).
func (e *Emitter) SetLocale(name string) {
	if !keymap.SetLocale(name) {
		e.log.Warn("unknown locale, falling back to US", "locale", name)
	}
}

// SendRawKeyboard writes a single keyboard report exactly as given,
// bypassing latch bookkeeping.
func (e *Emitter) SendRawKeyboard(modifiers byte, slots [6]byte) error {
	return e.writeKeyboard(modifiers, slots)
}

// SendRawPointer writes a single pointer report with clamped deltas,
// bypassing latch bookkeeping.
func (e *Emitter) SendRawPointer(buttons byte, dx, dy, vwheel, hwheel int) error {
	return e.writePointer(buttons, dx, dy, vwheel, hwheel)
}

func (e *Emitter) writeKeyboard(modifiers byte, slots [6]byte) error {
	h := e.reg.Handle(endpoint.Keyboard)
	if h == nil {
		return errEndpointUnavailable(endpoint.Keyboard)
	}
	rep := hidreport.BuildKeyboard(modifiers, slots)
	if err := h.Write(rep[:]); err != nil {
		return err
	}
	e.raw.Log(endpoint.Keyboard.String(), rep[:])
	return nil
}

func (e *Emitter) writePointer(buttons byte, dx, dy, vwheel, hwheel int) error {
	h := e.reg.Handle(endpoint.Pointer)
	if h == nil {
		return errEndpointUnavailable(endpoint.Pointer)
	}
	rep, err := hidreport.BuildPointer(buttons, dx, dy, vwheel, hwheel, e.pointerReportSz)
	if err != nil {
		return err
	}
	if err := h.Write(rep); err != nil {
		return err
	}
	e.raw.Log(endpoint.Pointer.String(), rep)
	return nil
}

func (e *Emitter) writeConsumer(usage uint16) error {
	h := e.reg.Handle(endpoint.Consumer)
	if h == nil {
		return errEndpointUnavailable(endpoint.Consumer)
	}
	rep := hidreport.BuildConsumer(usage)
	if err := h.Write(rep[:]); err != nil {
		return err
	}
	e.raw.Log(endpoint.Consumer.String(), rep[:])
	return nil
}

// Registry returns the endpoint registry this Emitter writes through, so
// other components (the LED-state reader) can share the same discovered
// handles instead of re-running discovery.
func (e *Emitter) Registry() *endpoint.Registry {
	return e.reg
}

// Close releases the underlying endpoint registry's handles.
func (e *Emitter) Close() error {
	return e.reg.Close()
}
