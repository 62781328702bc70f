// Package env implements the layered variable lookup used by the script
// interpreter: script-set variables, the process environment,
// computed system variables, and constant OS tags.
package env

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelexine/hid-gadget-module/ledstate"
)

// osVersionMajor and buildNumber are small per-OS lookup tables for the
// computed _OS_VERSION_MAJOR / _BUILD_NUMBER variables. Real values for
// any given machine are unknowable from inside a HID gadget process, so
// these stand in as plausible, stable constants; unrecognized tags fall
// back to "0".
var osVersionMajor = map[string]string{
	"WINDOWS": "10",
	"LINUX":   "6",
	"MACOS":   "14",
}

var buildNumber = map[string]string{
	"WINDOWS": "19045",
	"LINUX":   "0",
	"MACOS":   "23506",
}

const lowercaseLetters = "abcdefghijklmnopqrstuvwxyz"
const uppercaseLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const hexDigits = "0123456789abcdef"

// Env holds script-set variables and resolves the full name lookup
// chain described in spec.md §4.7. It is not safe for concurrent use;
// the interpreter that owns it executes one statement at a time.
type Env struct {
	vars  map[string]string
	leds  *ledstate.Reader
	osTag string

	now  func() time.Time
	rand *rand.Rand
}

// New builds an Env. leds may be nil, in which case the LED-derived
// variables always report FALSE. TARGET_OS, if set in the process
// environment, seeds _OS; otherwise it defaults to WINDOWS.
func New(leds *ledstate.Reader) *Env {
	tag := strings.ToUpper(os.Getenv("TARGET_OS"))
	if tag == "" {
		tag = "WINDOWS"
	}
	return &Env{
		vars:  map[string]string{},
		leds:  leds,
		osTag: tag,
		now:   time.Now,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Set assigns a script-level variable. name is stored without its
// leading "$", if the caller passed one.
func (e *Env) Set(name, value string) {
	e.vars[strings.TrimPrefix(name, "$")] = value
}

// Get resolves name through the full lookup chain: script variables,
// process environment, computed system variables, constant OS tags, and
// finally "absent" (ok=false).
func (e *Env) Get(name string) (string, bool) {
	name = strings.TrimPrefix(name, "$")

	if v, ok := e.vars[name]; ok {
		return v, true
	}
	if v := os.Getenv(name); v != "" {
		return v, true
	}
	if strings.HasPrefix(name, "_") {
		if v, ok := e.computed(name); ok {
			return v, true
		}
	}
	switch name {
	case "WINDOWS", "LINUX", "MACOS":
		return name, true
	}
	return "", false
}

func (e *Env) computed(name string) (string, bool) {
	switch name {
	case "_OS":
		return e.osTag, true
	case "_OS_VERSION_MAJOR":
		if v, ok := osVersionMajor[e.osTag]; ok {
			return v, true
		}
		return "0", true
	case "_BUILD_NUMBER":
		if v, ok := buildNumber[e.osTag]; ok {
			return v, true
		}
		return "0", true
	case "_CAPSLOCK_ON":
		return boolStr(e.leds != nil && e.leds.CapsOn()), true
	case "_NUMLOCK_ON":
		return boolStr(e.leds != nil && e.leds.NumOn()), true
	case "_SCROLLOCK_ON":
		return boolStr(e.leds != nil && e.leds.ScrollOn()), true
	case "_RANDOM_INT":
		return strconv.Itoa(e.rand.Intn(10000)), true
	case "_RANDOM_LOWERCASE_LETTER":
		return string(lowercaseLetters[e.rand.Intn(len(lowercaseLetters))]), true
	case "_RANDOM_UPPERCASE_LETTER":
		return string(uppercaseLetters[e.rand.Intn(len(uppercaseLetters))]), true
	case "_RANDOM_HEX":
		return string(hexDigits[e.rand.Intn(len(hexDigits))]), true
	case "_RANDOM_CHAR":
		return string(rune(33 + e.rand.Intn(126-33+1))), true
	case "_TIMESTAMP":
		return fmt.Sprintf("%d", e.now().Unix()), true
	}
	return "", false
}

func boolStr(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
