package endpoint

import "sync"

// Capture records every report written to each identity's handle, in
// order. It exists so emitter/interpreter tests can assert on exact byte
// sequences without touching a real character device.
type Capture struct {
	mu      sync.Mutex
	writes  map[Identity][][]byte
}

// Writes returns a copy of the recorded reports for id.
func (c *Capture) Writes(id Identity) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes[id]))
	copy(out, c.writes[id])
	return out
}

func (c *Capture) record(id Identity, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	c.writes[id] = append(c.writes[id], cp)
}

// NewCapturingRegistry returns a Registry whose three endpoints are all
// present and backed purely by in-memory capture, plus the Capture used
// to inspect what was written.
func NewCapturingRegistry() (*Registry, *Capture) {
	cap := &Capture{writes: map[Identity][][]byte{}}
	r := &Registry{handles: map[Identity]*Handle{}}
	for _, id := range []Identity{Keyboard, Pointer, Consumer} {
		captured := id
		r.handles[id] = &Handle{
			id:   id,
			path: "capture://" + id.String(),
			mock: true,
			sink: func(data []byte) { cap.record(captured, data) },
		}
	}
	return r, cap
}
