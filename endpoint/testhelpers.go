package endpoint

import (
	"os"

	"golang.org/x/sys/unix"
)

// NewPipeHandle returns a Handle whose read side is a non-blocking pipe,
// plus the write end of that pipe, so other packages (e.g. ledstate) can
// exercise non-blocking drain-to-latest behavior without a real character
// device.
func NewPipeHandle(id Identity) (h *Handle, writeEnd *os.File, err error) {
	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_NONBLOCK); err != nil {
		return nil, nil, err
	}
	r := os.NewFile(uintptr(fds[0]), "pipe-r")
	w := os.NewFile(uintptr(fds[1]), "pipe-w")
	h = &Handle{id: id, path: "pipe://" + id.String(), readFile: r}
	return h, w, nil
}

// NewRegistryWithHandles builds a Registry directly from a pre-built
// handle map, bypassing discovery. Exposed for tests in other packages
// that need to inject a fake or pipe-backed Handle.
func NewRegistryWithHandles(handles map[Identity]*Handle) *Registry {
	return &Registry{handles: handles}
}
