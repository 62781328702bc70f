package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/kelexine/hid-gadget-module/ducky/interp"
	"github.com/kelexine/hid-gadget-module/ducky/script"
	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/internal/log"
	"github.com/kelexine/hid-gadget-module/keymap"
	"github.com/kelexine/hid-gadget-module/ledstate"
	"github.com/kelexine/hid-gadget-module/tui"
)

// KeyboardCmd implements the "keyboard" CLI token: `[--hold] [--release]
// [modifiers] [sequence]`.
type KeyboardCmd struct {
	Hold      bool   `help:"Suppress the per-key release (latched typing)."`
	Release   bool   `help:"Stand-alone release: emit an all-zero keyboard report."`
	Modifiers string `arg:"" optional:"" help:"Dash- or space-separated modifier names, e.g. CTRL-ALT."`
	Sequence  string `arg:"" optional:"" help:"Named key (ENTER, F1, ...) or character run to type."`
}

func (c *KeyboardCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()

	if c.Release {
		return em.ReleaseAllKeyboard()
	}

	modifiers, sequence := c.Modifiers, c.Sequence
	if sequence == "" && modifiers != "" {
		// kong fills the first positional (Modifiers) from a lone token;
		// if it doesn't resolve as a modifier combination, it's the
		// sequence the caller meant to type, e.g. `hidg keyboard hello`.
		if mods, ok := parseModifierString(modifiers); ok {
			return em.TypeSequence(mods, "", c.Hold)
		}
		modifiers, sequence = "", modifiers
	}
	mods, _ := parseModifierString(modifiers)
	return em.TypeSequence(mods, sequence, c.Hold)
}

// parseModifierString parses a dash/plus/space-separated list of modifier
// names. ok reports whether every token was recognized as a modifier.
func parseModifierString(s string) (mods byte, ok bool) {
	toks := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '+' || r == ' ' })
	if len(toks) == 0 {
		return 0, false
	}
	for _, tok := range toks {
		bit, known := keymap.LookupModifier(tok)
		if !known {
			return 0, false
		}
		mods |= bit
	}
	return mods, true
}

func buttonByName(name string) byte {
	switch strings.ToLower(name) {
	case "right":
		return emitter.ButtonRight
	case "middle":
		return emitter.ButtonMiddle
	default:
		return emitter.ButtonLeft
	}
}

// MouseCmd groups the "mouse" CLI token's sub-actions.
type MouseCmd struct {
	Move        MouseMoveCmd        `cmd:"" help:"Move the pointer by (X, Y)."`
	Click       MouseClickCmd       `cmd:"" help:"Press and release a button."`
	Doubleclick MouseDoubleClickCmd `cmd:"" help:"Click a button twice."`
	Down        MouseDownCmd        `cmd:"" help:"Latch a button down."`
	Up          MouseUpCmd          `cmd:"" help:"Release every latched button."`
	Scroll      MouseScrollCmd      `cmd:"" help:"Scroll vertically, and optionally horizontally."`
}

type MouseMoveCmd struct {
	X int `arg:""`
	Y int `arg:""`
}

func (c *MouseMoveCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.PointerMove(c.X, c.Y)
}

type MouseClickCmd struct {
	Button string `arg:"" optional:"" default:"left" enum:"left,right,middle"`
}

func (c *MouseClickCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.PointerClick(buttonByName(c.Button))
}

type MouseDoubleClickCmd struct {
	Button string `arg:"" optional:"" default:"left" enum:"left,right,middle"`
}

func (c *MouseDoubleClickCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	btn := buttonByName(c.Button)
	if err := em.PointerClick(btn); err != nil {
		return err
	}
	return em.PointerClick(btn)
}

type MouseDownCmd struct {
	Button string `arg:"" optional:"" default:"left" enum:"left,right,middle"`
}

func (c *MouseDownCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.PointerPress(buttonByName(c.Button))
}

type MouseUpCmd struct{}

func (c *MouseUpCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.PointerRelease()
}

type MouseScrollCmd struct {
	V int `arg:""`
	H int `arg:"" optional:"" default:"0"`
}

func (c *MouseScrollCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.PointerScroll(c.V, c.H)
}

// ConsumerCmd implements the "consumer" CLI token.
type ConsumerCmd struct {
	Action string `arg:"" help:"Consumer-control action name, e.g. VOL+ or PLAYPAUSE."`
}

func (c *ConsumerCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	return em.SendConsumerTap(c.Action)
}

// DuckyCmd implements the "ducky" CLI token: `PATH (or -) [--os NAME]`.
type DuckyCmd struct {
	Path string `arg:"" help:"Script path, or - for stdin."`
	OS   string `help:"Initial _OS value." short:"p"`
}

func (c *DuckyCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	if c.OS != "" {
		os.Setenv("TARGET_OS", c.OS)
	} else if g.TargetOS != "" {
		os.Setenv("TARGET_OS", g.TargetOS)
	}

	s, err := script.Load(c.Path)
	if err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()

	leds := ledstate.NewReader(em.Registry())
	e := env.New(leds)

	if err := preseedVars(e, em, leds, logger, c.Path); err != nil {
		return fmt.Errorf("running vars preseed: %w", err)
	}

	in := interp.New(s, e, em, leds)
	in.Log = logger
	return in.Run()
}

// preseedVars runs a companion "<script>_vars.ducky" file, if present next
// to the script, through the same loader/interpreter pipeline as the main
// script, before the main script runs (spec.md §6 "Persisted state"). It
// shares the main run's Env, Emitter, and LED reader, so VAR assignments
// land in the same variable table and any other statement in the preseed
// file — not just VAR — also runs.
func preseedVars(e *env.Env, em *emitter.Emitter, leds *ledstate.Reader, logger *slog.Logger, scriptPath string) error {
	if scriptPath == "-" {
		return nil
	}
	base := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	varsPath := filepath.Join(filepath.Dir(scriptPath), base+"_vars.ducky")
	if _, err := os.Stat(varsPath); err != nil {
		return nil
	}

	vs, err := script.Load(varsPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", varsPath, err)
	}

	pre := interp.New(vs, e, em, leds)
	if logger != nil {
		pre.Log = logger
	}
	return pre.Run()
}

// TuiCmd implements the "tui" CLI token.
type TuiCmd struct{}

func (c *TuiCmd) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	em := BuildEmitter(g, logger, rawLogger)
	defer em.Close()
	leds := ledstate.NewReader(em.Registry())
	return tui.Run(em, leds, logger)
}

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template."`
}

// ConfigInit scaffolds a blank configuration file.
type ConfigInit struct {
	Format string `help:"Output format." enum:"json,yaml,toml" default:"json"`
	Output string `help:"Destination file path (defaults to the current directory)."`
	Force  bool   `help:"Overwrite if the file already exists."`
}

func (c *ConfigInit) Run() error {
	dest := c.Output
	if dest == "" {
		dest = "hidg." + c.Format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("destination %q exists; use --force to overwrite", dest)
		}
	}
	return os.WriteFile(dest, []byte(defaultConfigTemplate(c.Format)), 0o644)
}

func defaultConfigTemplate(format string) string {
	switch format {
	case "yaml":
		return "keyboarddev: \"\"\npointerdev: \"\"\nconsumerdev: \"\"\nkeydelayms: 10\npointerreportsize: 4\npointerhscroll: false\ntargetos: \"\"\nmock: false\n"
	case "toml":
		return "KeyboardDev = \"\"\nPointerDev = \"\"\nConsumerDev = \"\"\nKeyDelayMS = 10\nPointerReportSize = 4\nPointerHScroll = false\nTargetOS = \"\"\nMock = false\n"
	default:
		return "{\n  \"keyboarddev\": \"\",\n  \"pointerdev\": \"\",\n  \"consumerdev\": \"\",\n  \"keydelayms\": 10,\n  \"pointerreportsize\": 4,\n  \"pointerhscroll\": false,\n  \"targetos\": \"\",\n  \"mock\": false\n}\n"
	}
}
