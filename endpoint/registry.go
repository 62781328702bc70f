// Package endpoint resolves and owns the character-special device handles
// the emitter writes HID reports to: one each for keyboard, pointer and
// consumer control.
package endpoint

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/sys/unix"
)

// Identity names one of the three logical HID endpoints.
type Identity int

const (
	Keyboard Identity = iota
	Pointer
	Consumer
)

func (i Identity) String() string {
	switch i {
	case Keyboard:
		return "keyboard"
	case Pointer:
		return "pointer"
	case Consumer:
		return "consumer"
	default:
		return "unknown"
	}
}

// envNames are the process-environment variable names consulted before
// falling back to a directory scan, per spec.md §4.1 step 1 / §6.
var envNames = map[Identity]string{
	Keyboard: "KEYBOARD_DEV",
	Pointer:  "POINTER_DEV",
	Consumer: "CONSUMER_DEV",
}

var hidgPattern = regexp.MustCompile(`^hidg(\d+)$`)

// Registry owns the three endpoint handles for the lifetime of the
// process. It is safe to share across goroutines; each Handle guards its
// own writes.
type Registry struct {
	handles map[Identity]*Handle
	mock    bool
	log     *slog.Logger
}

// Options configures discovery.
type Options struct {
	// DeviceDir is the directory scanned for hidg<N> character devices.
	// Defaults to "/dev".
	DeviceDir string
	// Mock, when true and zero endpoints are discovered, synthesizes
	// /dev/null-backed paths routed through a hex-dump sink instead of
	// failing every operation with ErrEndpointUnavailable. This
	// generalizes spec.md's "build-time" mock flag to a runtime one (see
	// DESIGN.md Open Questions).
	Mock bool
	Log  *slog.Logger
}

// NewRegistry discovers and returns a populated Registry. Discovery never
// fails outright: missing slots are recorded and surfaced lazily when an
// operation needs them (spec.md §4.1 point 3).
func NewRegistry(opts Options) *Registry {
	if opts.DeviceDir == "" {
		opts.DeviceDir = "/dev"
	}
	logger := opts.Log
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{handles: map[Identity]*Handle{}, mock: opts.Mock, log: logger}

	resolved := map[Identity]string{}
	for id, env := range envNames {
		path := os.Getenv(env)
		if path == "" {
			continue
		}
		if !isCharDevice(path) {
			logger.Warn("endpoint env var does not point at a character device", "identity", id, "path", path)
			continue
		}
		resolved[id] = path
	}

	unresolved := []Identity{}
	for _, id := range []Identity{Keyboard, Pointer, Consumer} {
		if _, ok := resolved[id]; !ok {
			unresolved = append(unresolved, id)
		}
	}

	if len(unresolved) > 0 {
		scanned, err := scanDeviceDir(opts.DeviceDir)
		if err != nil {
			logger.Warn("endpoint directory scan failed, continuing with empty result", "dir", opts.DeviceDir, "error", err)
			scanned = nil
		}
		already := map[string]bool{}
		for _, p := range resolved {
			already[p] = true
		}
		i := 0
		for _, id := range unresolved {
			for i < len(scanned) && already[scanned[i]] {
				i++
			}
			if i >= len(scanned) {
				break
			}
			resolved[id] = scanned[i]
			already[scanned[i]] = true
			i++
		}
	}

	if len(resolved) == 0 && opts.Mock {
		logger.Warn("no HID endpoints discovered; synthesizing mock sinks")
		for _, id := range []Identity{Keyboard, Pointer, Consumer} {
			r.handles[id] = newMockHandle(id, logger)
		}
		return r
	}

	for id, path := range resolved {
		r.handles[id] = newHandle(id, path)
	}
	return r
}

// isCharDevice reports whether path exists and is a character-special
// device.
func isCharDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFCHR
}

// scanDeviceDir lists dir for hidg<N> character devices, sorted by N
// ascending.
func scanDeviceDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type found struct {
		n    int
		path string
	}
	var matches []found
	for _, e := range entries {
		m := hidgPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		full := dir + "/" + e.Name()
		if !isCharDevice(full) {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		matches = append(matches, found{n: n, path: full})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].n < matches[j].n })
	paths := make([]string, len(matches))
	for i, f := range matches {
		paths[i] = f.path
	}
	return paths, nil
}

// Handle returns the handle for identity, or nil if that slot was never
// resolved.
func (r *Registry) Handle(id Identity) *Handle {
	return r.handles[id]
}

// Close releases every open handle. Idempotent.
func (r *Registry) Close() error {
	var firstErr error
	for _, h := range r.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s endpoint: %w", h.id, err)
		}
	}
	return firstErr
}
