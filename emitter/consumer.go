package emitter

import (
	"time"

	"github.com/kelexine/hid-gadget-module/hidgerr"
	"github.com/kelexine/hid-gadget-module/keymap"
)

const consumerTapDelay = 50 * time.Millisecond

// SendConsumerTap resolves name against keymap.ConsumerKeys (case
// insensitive), writes a press report, sleeps 50ms, then writes the
// release (usage 0) report.
func (e *Emitter) SendConsumerTap(name string) error {
	usage, ok := keymap.LookupConsumerKey(name)
	if !ok {
		return hidgerr.ErrUnknownConsumerKey
	}
	if err := e.writeConsumer(usage); err != nil {
		return err
	}
	e.sleep(consumerTapDelay)
	return e.writeConsumer(0)
}
