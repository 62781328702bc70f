package config

import (
	"log/slog"

	"github.com/kelexine/hid-gadget-module/ducky/env"
	"github.com/kelexine/hid-gadget-module/emitter"
	"github.com/kelexine/hid-gadget-module/ledstate"
)

// PreseedVarsForTest exposes preseedVars to config_test.
func PreseedVarsForTest(e *env.Env, em *emitter.Emitter, leds *ledstate.Reader, logger *slog.Logger, scriptPath string) error {
	return preseedVars(e, em, leds, logger, scriptPath)
}

// ButtonByNameForTest exposes buttonByName to config_test.
func ButtonByNameForTest(name string) byte {
	return buttonByName(name)
}
