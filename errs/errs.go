// Package errs defines the sentinel errors returned while decoding a
// blackbox log. All errors are terminal for the log being parsed; callers
// should compare against these sentinels with errors.Is.
package errs

import "errors"

var (
	// ErrUnsupportedVersion is returned when the `Data version` header is
	// present but not equal to 2.
	ErrUnsupportedVersion = errors.New("unsupported data version")

	// ErrUnknownFirmware is returned when the `Firmware type` header value
	// does not match a recognized firmware kind.
	ErrUnknownFirmware = errors.New("unknown firmware type")

	// ErrMissingHeader is returned at frame-definition build time when a
	// required header (name/signed/predictor/encoding list, or a required
	// frame kind) was never seen.
	ErrMissingHeader = errors.New("missing header")

	// ErrInvalidHeader is returned when a header value cannot be parsed:
	// a malformed integer, a list whose length disagrees with its siblings,
	// or a sign/predictor/encoding index out of range.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrCorrupted is the catch-all for in-payload violations that survive
	// a resync attempt: invalid encoding/predictor tags, a GPS frame byte
	// encountered without a GPS frame definition, and similar.
	ErrCorrupted = errors.New("corrupted data")

	// ErrUnexpectedEOF is returned when the input is exhausted where more
	// bytes were required to complete a read.
	ErrUnexpectedEOF = errors.New("unexpected end of file")
)
