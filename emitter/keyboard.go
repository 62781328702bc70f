package emitter

import (
	"github.com/kelexine/hid-gadget-module/hidgerr"
	"github.com/kelexine/hid-gadget-module/keymap"
)

// TypeSequence implements spec.md §4.4 "Keyboard typed sequence" framing.
//
// mods are the explicit modifiers E the caller asked for (may be 0).
// sequence is either a named key (matched case-insensitively against
// keymap.FnKeys) or a run of printable characters. An empty sequence
// means "modifiers only": a single report is emitted and, per the CLI
// table, no final release follows. hold suppresses the per-key release
// (the caller is expected to call Release/ReleaseAll later).
func (e *Emitter) TypeSequence(mods byte, sequence string, hold bool) error {
	if sequence == "" {
		return e.writeKeyboard(mods, [6]byte{})
	}

	if usage, ok := keymap.LookupFnKey(sequence); ok {
		if err := e.writeKeyboard(mods, [6]byte{usage}); err != nil {
			return err
		}
		if !hold {
			if err := e.writeKeyboard(mods, [6]byte{}); err != nil {
				return err
			}
		}
		return e.finishSequence(mods, hold)
	}

	loc := keymap.Active()
	for i := 0; i < len(sequence); i++ {
		c := sequence[i]
		u := loc.Usage(c)
		if u == 0 {
			if c < 128 {
				e.log.Warn("unmapped character, skipping", "char", string(rune(c)))
			}
			continue
		}
		m := mods
		if loc.ShiftRequired(c) {
			m |= keymap.ModLShift
		}
		if err := e.writeKeyboard(m, [6]byte{u}); err != nil {
			return err
		}
		e.sleep(e.keyDelay)
		if !hold {
			if err := e.writeKeyboard(mods, [6]byte{}); err != nil {
				return err
			}
		}
	}
	return e.finishSequence(mods, hold)
}

// finishSequence implements the trailing "if E != 0 and not holding, emit
// (0, 0, ...)" rule so the caller observes a clean state.
func (e *Emitter) finishSequence(mods byte, hold bool) error {
	if !hold && mods != 0 {
		return e.writeKeyboard(0, [6]byte{})
	}
	return nil
}

// ReleaseAllKeyboard writes the canonical all-released keyboard report and
// clears every latch (modifiers and held slots). The stand-alone CLI
// "--release" uses it.
func (e *Emitter) ReleaseAllKeyboard() error {
	e.mu.Lock()
	e.heldMods = 0
	e.heldSlots = [6]byte{}
	e.mu.Unlock()
	return e.writeKeyboard(0, [6]byte{})
}

// resolveUsage resolves name to a keyboard usage code via the named-key
// catalog, falling back to a single-character lookup in the active
// locale.
func resolveUsage(name string) (usage byte, ok bool) {
	if u, found := keymap.LookupFnKey(name); found {
		return u, true
	}
	if len(name) == 1 {
		if u := keymap.Active().Usage(name[0]); u != 0 {
			return u, true
		}
	}
	return 0, false
}

// Hold latches name (a modifier or a key) into the held state and emits
// one report reflecting it. hold(x) followed by hold(x) is idempotent.
func (e *Emitter) Hold(name string) error {
	e.mu.Lock()
	if bit, ok := keymap.LookupModifier(name); ok {
		e.heldMods |= bit
		mods, slots := e.heldMods, e.heldSlots
		e.mu.Unlock()
		return e.writeKeyboard(mods, slots)
	}
	usage, ok := resolveUsage(name)
	if !ok {
		e.mu.Unlock()
		return hidgerr.ErrUnknownKey
	}
	already := false
	emptyIdx := -1
	for i, s := range e.heldSlots {
		if s == usage {
			already = true
			break
		}
		if s == 0 && emptyIdx == -1 {
			emptyIdx = i
		}
	}
	if !already {
		if emptyIdx != -1 {
			e.heldSlots[emptyIdx] = usage
		}
		// else: all six slots full; newest press is silently dropped
		// per spec.md §4.4.
	}
	mods, slots := e.heldMods, e.heldSlots
	e.mu.Unlock()
	return e.writeKeyboard(mods, slots)
}

// Release clears name (a modifier or a key) from the held state and
// emits one report reflecting it.
func (e *Emitter) Release(name string) error {
	e.mu.Lock()
	if bit, ok := keymap.LookupModifier(name); ok {
		e.heldMods &^= bit
		mods, slots := e.heldMods, e.heldSlots
		e.mu.Unlock()
		return e.writeKeyboard(mods, slots)
	}
	usage, ok := resolveUsage(name)
	if !ok {
		e.mu.Unlock()
		return hidgerr.ErrUnknownKey
	}
	for i, s := range e.heldSlots {
		if s == usage {
			e.heldSlots[i] = 0
		}
	}
	mods, slots := e.heldMods, e.heldSlots
	e.mu.Unlock()
	return e.writeKeyboard(mods, slots)
}
