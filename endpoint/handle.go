package endpoint

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kelexine/hid-gadget-module/hidgerr"
	"golang.org/x/sys/unix"
)

// Handle is a cached write endpoint, plus a lazily opened non-blocking
// read endpoint for the keyboard LED byte. At most one open write handle
// exists per endpoint identity at a time (spec.md §3 invariant).
type Handle struct {
	id   Identity
	path string

	mu        sync.Mutex
	writeFile io.WriteCloser
	readFile  *os.File

	mock   bool
	sink   func(data []byte)
	logger *slog.Logger
}

func newHandle(id Identity, path string) *Handle {
	return &Handle{id: id, path: path}
}

func newMockHandle(id Identity, logger *slog.Logger) *Handle {
	return &Handle{id: id, path: os.DevNull, mock: true, logger: logger, sink: func(data []byte) {
		logger.Info("mock HID write", "endpoint", id, "hex", hexDump(data))
	}}
}

func hexDump(data []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(data)*3)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[b>>4], digits[b&0x0F])
	}
	return string(out)
}

// Path returns the resolved device path for this handle.
func (h *Handle) Path() string { return h.path }

// Write writes data as a single report. If fewer bytes than len(data) were
// accepted, ErrWriteShort is returned and the caller decides whether to
// retry (spec.md §4.4 "Concurrency and retry").
func (h *Handle) Write(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.mock {
		h.sink(data)
		return nil
	}

	if h.writeFile == nil {
		f, err := os.OpenFile(h.path, os.O_WRONLY, 0)
		if err != nil {
			return hidgerr.ErrEndpointUnavailable
		}
		h.writeFile = f
	}

	n, err := h.writeFile.Write(data)
	if err != nil {
		// Opening is lazy and idempotent; a failed handle is dropped so
		// the next call retries the open (spec.md §4.4).
		_ = h.writeFile.Close()
		h.writeFile = nil
		return hidgerr.ErrEndpointUnavailable
	}
	if n < len(data) {
		return hidgerr.ErrWriteShort
	}
	return nil
}

// ReadLatestByte drains all currently available bytes from the read side
// of this endpoint (non-blocking; it waits at most about a millisecond
// for more data) and returns the most recently read one.
// ok is false if nothing could be read (no endpoint, or nothing pending).
func (h *Handle) ReadLatestByte() (b byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.mock {
		return 0, false
	}

	if h.readFile == nil {
		fd, err := unix.Open(h.path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			return 0, false
		}
		h.readFile = os.NewFile(uintptr(fd), h.path)
	}

	buf := make([]byte, 1)
	var last byte
	got := false
	// A pollable descriptor parks in Read once drained instead of
	// returning EAGAIN; a short deadline ends the drain at that point.
	_ = h.readFile.SetReadDeadline(time.Now().Add(time.Millisecond))
	for {
		n, err := h.readFile.Read(buf)
		if n > 0 {
			last = buf[0]
			got = true
		}
		if err != nil || n == 0 {
			break
		}
	}
	return last, got
}

// Close releases this handle's open file descriptors. Idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var err error
	if h.writeFile != nil {
		err = h.writeFile.Close()
		h.writeFile = nil
	}
	if h.readFile != nil {
		if cerr := h.readFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		h.readFile = nil
	}
	return err
}
