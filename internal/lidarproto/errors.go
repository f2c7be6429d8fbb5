package lidarproto

import "errors"

// Sentinel errors for the codec's fixed error kinds. Callers should use
// errors.Is against these; wrapping with fmt.Errorf("...: %w") at call
// sites is expected and does not break the sentinel comparison.
var (
	// ErrEncodeRangeExceeded is returned when an inter-sample delta falls
	// outside the signed 11-bit (theta) or signed 16-bit (distance) window.
	// The rotation that produced it must be discarded whole, not truncated.
	ErrEncodeRangeExceeded = errors.New("lidarproto: delta exceeds field width")

	// ErrFrameTooShort is returned when a frame is shorter than the 8-byte
	// timestamp trailer.
	ErrFrameTooShort = errors.New("lidarproto: frame shorter than timestamp trailer")

	// ErrUnexpectedEndOfFrame is returned when a mid-sample bit read
	// underflows the available payload. The caller decides whether to
	// retain the buffer (more bytes may arrive) or abandon it.
	ErrUnexpectedEndOfFrame = errors.New("lidarproto: payload ended mid-sample")
)
