// Package interp executes an indexed script against an Emitter, an
// environment, and the LED-state reader, dispatching one statement per
// program-counter step per spec.md §4.9.
package interp

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/kelexine/hid-gadget-module/ducky/eval"
	"github.com/kelexine/hid-gadget-module/ducky/script"
	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/keymap"
	"github.com/kelexine/hid-gadget-module/ledstate"
)

// ledPollInterval is how often WAIT_FOR_*_ON/OFF re-checks LED state.
const ledPollInterval = 10 * time.Millisecond

// loopFrame tracks one active FOR loop.
type loopFrame struct {
	varName  string
	current  int
	end      int
	forLine  int
	nextLine int
}

// Interpreter walks a loaded script's Lines with a single program
// counter, a FOR-loop stack, and a FUNCTION-call return stack.
type Interpreter struct {
	Script *script.Script
	Env    *env.Env
	Em     *emitter.Emitter
	LEDs   *ledstate.Reader

	Out io.Writer
	Log *slog.Logger

	DefaultDelayMS int
	DefaultFuzzMS  int
	CharDelayMS    int
	CharFuzzMS     int

	pc        int
	loops     []loopFrame
	callStack []int
	sleep     func(time.Duration)
	rand      *rand.Rand
}

// New builds an Interpreter ready to Run s.
func New(s *script.Script, e *env.Env, em *emitter.Emitter, leds *ledstate.Reader) *Interpreter {
	logger := slog.Default()
	return &Interpreter{
		Script: s,
		Env:    e,
		Em:     em,
		LEDs:   leds,
		Out:    os.Stdout,
		Log:    logger,
		sleep:  time.Sleep,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the script to completion. Non-fatal statement failures
// are logged and execution continues at the next line; the only way
// Run returns an error is if the caller's context around it decides to
// treat a particular failure as fatal, which this interpreter does not
// do per spec.md §7 policy (exit status reflects the CLI command as a
// whole, not individual statements).
func (in *Interpreter) Run() error {
	lines := in.Script.Lines
	for in.pc < len(lines) {
		line := lines[in.pc]
		trimmed := strings.TrimSpace(line)

		jumped, sleepAfter, err := in.step(trimmed)
		if err != nil {
			in.Log.Warn("statement failed, continuing", "line", in.pc+1, "text", trimmed, "error", err)
		}
		if !jumped {
			in.pc++
		}
		if sleepAfter {
			in.postStatementDelay()
		}
	}
	return nil
}

func (in *Interpreter) postStatementDelay() {
	if in.DefaultDelayMS <= 0 && in.DefaultFuzzMS <= 0 {
		return
	}
	d := in.DefaultDelayMS
	if in.DefaultFuzzMS > 0 {
		d += in.rand.Intn(in.DefaultFuzzMS + 1)
	}
	if d > 0 {
		in.sleep(time.Duration(d) * time.Millisecond)
	}
}

// step executes one statement at the current pc. jumped reports whether
// pc was already repositioned (GOTO, block skip, loop, call/return);
// sleepAfter reports whether this was a "non-control" statement that
// should incur the post-statement delay.
func (in *Interpreter) step(trimmed string) (jumped bool, sleepAfter bool, err error) {
	switch {
	case trimmed == "":
		return false, false, nil

	case strings.HasPrefix(trimmed, "REM_BLOCK"):
		end := in.scanRemBlock(in.pc)
		if end < 0 {
			in.Log.Warn("unterminated REM_BLOCK, skipping to end of script", "line", in.pc+1)
			in.pc = len(in.Script.Lines)
			return true, false, nil
		}
		in.pc = end + 1
		return true, false, nil

	case strings.HasPrefix(trimmed, "REM"):
		return false, false, nil

	case strings.HasPrefix(trimmed, ":"):
		return false, false, nil

	case strings.HasPrefix(trimmed, "GOTO "):
		name := strings.TrimSpace(strings.TrimPrefix(trimmed, "GOTO "))
		if target, ok := in.Script.Labels[name]; ok {
			in.pc = target
			return true, false, nil
		}
		return false, false, nil

	case strings.HasPrefix(trimmed, "STRINGLN "):
		text := in.subst(strings.TrimPrefix(trimmed, "STRINGLN "))
		err = in.typeWithCharDelay(text)
		if err == nil {
			err = in.Em.TypeSequence(0, "ENTER", false)
		}
		return false, true, err

	case strings.HasPrefix(trimmed, "STRING "):
		text := in.subst(strings.TrimPrefix(trimmed, "STRING "))
		return false, true, in.Em.TypeSequence(0, text, false)

	case strings.HasPrefix(trimmed, "DEFAULTDELAY "):
		ms, perr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "DEFAULTDELAY ")))
		if perr == nil {
			in.DefaultDelayMS = ms
		}
		return false, false, perr

	case strings.HasPrefix(trimmed, "DELAY "):
		ms, perr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "DELAY ")))
		if perr != nil {
			return false, false, perr
		}
		in.sleep(time.Duration(ms) * time.Millisecond)
		return false, false, nil

	case strings.HasPrefix(trimmed, "IF "):
		return in.execIf(trimmed)

	case trimmed == "ELSE":
		// Reached naturally after executing the true branch: skip the
		// else branch entirely.
		_, endif := in.scanIfBlock(in.pc)
		if endif < 0 {
			in.pc = len(in.Script.Lines)
			return true, false, nil
		}
		in.pc = endif + 1
		return true, false, nil

	case trimmed == "ENDIF" || trimmed == "END_IF":
		return false, false, nil

	case strings.HasPrefix(trimmed, "FOR $"):
		return in.execFor(trimmed)

	case trimmed == "NEXT":
		return in.execNext()

	case strings.HasPrefix(trimmed, "VAR ") || strings.HasPrefix(trimmed, "$"):
		return false, false, in.execAssign(trimmed)

	case strings.HasPrefix(trimmed, "HOLD "):
		return false, true, in.Em.Hold(strings.TrimSpace(strings.TrimPrefix(trimmed, "HOLD ")))

	case strings.HasPrefix(trimmed, "RELEASE "):
		return false, true, in.Em.Release(strings.TrimSpace(strings.TrimPrefix(trimmed, "RELEASE ")))

	case strings.HasPrefix(trimmed, "LOCALE "):
		in.Em.SetLocale(strings.TrimSpace(strings.TrimPrefix(trimmed, "LOCALE ")))
		return false, true, nil

	case strings.HasPrefix(trimmed, "KEYCODE "):
		return false, true, in.execKeycode(trimmed)

	case strings.HasPrefix(trimmed, "WAIT_FOR_"):
		if handled, werr := in.execWaitFor(trimmed); handled {
			return false, true, werr
		}
		in.diagnostic(trimmed)
		return false, false, nil

	case strings.HasPrefix(trimmed, "ECHO "):
		text := in.subst(strings.TrimPrefix(trimmed, "ECHO "))
		fmt.Fprintln(in.Out, text)
		return false, false, nil

	case strings.HasPrefix(trimmed, "ATTACKMODE"), strings.HasPrefix(trimmed, "LED"),
		strings.HasPrefix(trimmed, "WAIT_FOR_BUTTON_PRESS"), strings.HasPrefix(trimmed, "EXTENSION"):
		in.diagnostic(trimmed)
		return false, false, nil

	case strings.HasPrefix(trimmed, "FUNCTION "):
		end := in.scanFunctionEnd(in.pc)
		if end < 0 {
			in.pc = len(in.Script.Lines)
			return true, false, nil
		}
		in.pc = end + 1
		return true, false, nil

	case trimmed == "END_FUNCTION" || trimmed == "RETURN":
		return in.execReturn()

	default:
		return in.execBareWord(trimmed)
	}
}

func (in *Interpreter) diagnostic(trimmed string) {
	fmt.Fprintf(in.Out, "[unsupported] %s\n", trimmed)
}

func (in *Interpreter) subst(s string) string {
	return eval.Substitute(s, in.Env.Get)
}

// typeWithCharDelay types text one character at a time with CharDelayMS/
// CharFuzzMS applied between characters. Only STRINGLN is scoped to this;
// STRING types text with the ordinary inter-key delay instead.
func (in *Interpreter) typeWithCharDelay(text string) error {
	if in.CharDelayMS <= 0 && in.CharFuzzMS <= 0 {
		return in.Em.TypeSequence(0, text, false)
	}
	// Walk the string ourselves so each character can get its own
	// jittered pause.
	for _, r := range text {
		if err := in.Em.TypeSequence(0, string(r), false); err != nil {
			return err
		}
		d := in.CharDelayMS
		if in.CharFuzzMS > 0 {
			d += in.rand.Intn(in.CharFuzzMS + 1)
		}
		if d > 0 {
			in.sleep(time.Duration(d) * time.Millisecond)
		}
	}
	return nil
}

func (in *Interpreter) execKeycode(trimmed string) error {
	fields := strings.Fields(strings.TrimPrefix(trimmed, "KEYCODE "))
	if len(fields) != 8 {
		return fmt.Errorf("keycode: want 8 bytes, got %d", len(fields))
	}
	var slots [6]byte
	var mods byte
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 0, 8)
		if err != nil {
			return fmt.Errorf("keycode byte %d: %w", i, err)
		}
		if i == 0 {
			mods = byte(v)
		} else if i >= 2 {
			slots[i-2] = byte(v)
		}
	}
	return in.Em.SendRawKeyboard(mods, slots)
}

func (in *Interpreter) execWaitFor(trimmed string) (handled bool, err error) {
	var predicate func() bool
	switch trimmed {
	case "WAIT_FOR_CAPS_ON":
		predicate = func() bool { return in.LEDs != nil && in.LEDs.CapsOn() }
	case "WAIT_FOR_CAPS_OFF":
		predicate = func() bool { return in.LEDs == nil || !in.LEDs.CapsOn() }
	case "WAIT_FOR_NUM_ON":
		predicate = func() bool { return in.LEDs != nil && in.LEDs.NumOn() }
	case "WAIT_FOR_NUM_OFF":
		predicate = func() bool { return in.LEDs == nil || !in.LEDs.NumOn() }
	case "WAIT_FOR_SCROLL_ON":
		predicate = func() bool { return in.LEDs != nil && in.LEDs.ScrollOn() }
	case "WAIT_FOR_SCROLL_OFF":
		predicate = func() bool { return in.LEDs == nil || !in.LEDs.ScrollOn() }
	default:
		return false, nil
	}
	for !predicate() {
		in.sleep(ledPollInterval)
	}
	return true, nil
}

func (in *Interpreter) execBareWord(trimmed string) (jumped bool, sleepAfter bool, err error) {
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false, false, nil
	}
	if sig, ok := in.Script.Functions[fields[0]]; ok {
		in.Log.Debug("parameters accepted but unused", "function", sig.Name, "params", sig.Params)
		in.callStack = append(in.callStack, in.pc+1)
		in.pc = sig.StartLine
		return true, false, nil
	}

	var mods byte
	var key string
	for _, tok := range fields {
		if bit, ok := modifierAlias(tok); ok {
			mods |= bit
			continue
		}
		if key == "" {
			key = tok
		}
	}
	return false, true, in.Em.TypeSequence(mods, key, false)
}

func modifierAlias(tok string) (byte, bool) {
	switch strings.ToUpper(tok) {
	case "CTRL", "CONTROL", "SHIFT", "ALT", "OPTION", "GUI", "WINDOWS", "COMMAND":
		return keymap.LookupModifier(tok)
	default:
		return 0, false
	}
}
