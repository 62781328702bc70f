package emitter

import (
	"fmt"

	"github.com/kelexine/hid-gadget-module/endpoint"
	"github.com/kelexine/hid-gadget-module/hidgerr"
)

func errEndpointUnavailable(id endpoint.Identity) error {
	return fmt.Errorf("%s: %w", id, hidgerr.ErrEndpointUnavailable)
}
