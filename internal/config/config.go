// Package config defines the kong CLI surface and the shared wiring
// that turns parsed flags into an endpoint.Registry and emitter.Emitter.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/kelexine/hid-gadget-module/hidreport"
	"github.com/kelexine/hid-gadget-module/internal/log"
)

// Globals carries the flags shared by every subcommand: endpoint
// overrides, delay/report-size tuning, and the mock-sink escape hatch
// (spec.md §6 "Environment variables").
type Globals struct {
	KeyboardDev       string `env:"KEYBOARD_DEV" help:"Keyboard endpoint character device path."`
	PointerDev        string `env:"POINTER_DEV" help:"Pointer endpoint character device path."`
	ConsumerDev       string `env:"CONSUMER_DEV" help:"Consumer-control endpoint character device path."`
	KeyDelayMS        int    `env:"KEY_DELAY_MS" default:"10" help:"Inter-key delay in milliseconds, clamped to [0, 5000]."`
	PointerReportSize int    `env:"POINTER_REPORT_SIZE" default:"4" enum:"4,5" help:"Pointer report size in bytes."`
	PointerHScroll    bool   `env:"POINTER_HSCROLL" help:"Enable the horizontal wheel byte (forces a 5-byte pointer report)."`
	TargetOS          string `env:"TARGET_OS" help:"Seed value for the _OS script variable."`
	Mock              bool   `env:"HIDG_MOCK" help:"Synthesize sink endpoints instead of opening real character devices."`
}

// CLI is the root command tree parsed by kong in cmd/hidg.
type CLI struct {
	Globals `embed:""`

	Keyboard KeyboardCmd   `cmd:"" help:"Type a sequence, or hold/release a key or modifier."`
	Mouse    MouseCmd      `cmd:"" help:"Move, click, or scroll the pointer."`
	Consumer ConsumerCmd   `cmd:"" help:"Tap a consumer-control action (volume, play/pause, ...)."`
	Ducky    DuckyCmd      `cmd:"" help:"Load and run a DuckyScript-style script."`
	Tui      TuiCmd        `cmd:"" help:"Run the interactive terminal adapter."`
	Config   ConfigCommand `cmd:"" help:"Generate a configuration file template."`

	LogLevel   string `name:"log-level" help:"trace, debug, info, warn, or error." enum:"trace,debug,info,warn,error" default:"info"`
	LogFile    string `name:"log-file" help:"Also write logs to this file; console logs then all go to stderr."`
	LogRawFile string `name:"log-raw-file" help:"Write a hex dump of every HID report to this file."`
	ConfigPath string `name:"config" help:"Explicit config file path (json/yaml/toml)." type:"path"`
}

// BuildEmitter constructs the endpoint registry and emitter described by
// g. Callers are responsible for closing the returned emitter. rawLogger
// may be nil, in which case reports are not hex-dumped.
func BuildEmitter(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) *emitter.Emitter {
	// endpoint.NewRegistry consults the process environment directly;
	// re-propagate anything kong resolved onto Globals (whether from a
	// flag or the same env var) so a --keyboard-dev flag has the same
	// effect as setting KEYBOARD_DEV.
	setEnvIfNonEmpty("KEYBOARD_DEV", g.KeyboardDev)
	setEnvIfNonEmpty("POINTER_DEV", g.PointerDev)
	setEnvIfNonEmpty("CONSUMER_DEV", g.ConsumerDev)

	reg := endpoint.NewRegistry(endpoint.Options{
		Mock: g.Mock,
		Log:  logger,
	})
	sz := hidreport.PointerReportSize4
	if g.PointerReportSize == 5 || g.PointerHScroll {
		sz = hidreport.PointerReportSize5
	}
	return emitter.New(emitter.Options{
		Registry:        reg,
		Logger:          logger,
		RawLogger:       rawLogger,
		KeyDelay:        msToDuration(g.KeyDelayMS),
		PointerReportSz: sz,
		PointerHScroll:  g.PointerHScroll,
	})
}

func setEnvIfNonEmpty(name, value string) {
	if value != "" {
		_ = os.Setenv(name, value)
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
