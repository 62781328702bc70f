// Package hidgerr defines the sentinel error kinds shared across the HID
// gadget emitter and script interpreter, so callers can branch with
// errors.Is instead of string matching.
package hidgerr

import "errors"

var (
	// ErrEndpointUnavailable means a required endpoint has no resolved
	// path, or failed to open.
	ErrEndpointUnavailable = errors.New("hidg: endpoint unavailable")

	// ErrWriteShort means the OS accepted fewer bytes than the report size.
	ErrWriteShort = errors.New("hidg: short write")

	// ErrUnknownKey means a character or named key has no usage mapping.
	ErrUnknownKey = errors.New("hidg: unknown key")

	// ErrUnknownConsumerKey means a consumer control name was not found.
	ErrUnknownConsumerKey = errors.New("hidg: unknown consumer key")

	// ErrParse means a malformed numeric argument or script line.
	ErrParse = errors.New("hidg: parse error")

	// ErrUnterminatedBlock means an IF/FOR/REM_BLOCK had no matching
	// terminator before end of script.
	ErrUnterminatedBlock = errors.New("hidg: unterminated block")

	// ErrUnsupportedFeature means a codec was asked to encode a feature
	// the configured report size does not support (e.g. a horizontal
	// wheel byte on a 4-byte pointer report).
	ErrUnsupportedFeature = errors.New("hidg: unsupported feature")
)
