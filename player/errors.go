package player

import (
	"errors"
	"fmt"
)

// Error codes carried by PlaybackError. Values follow the platform media
// framework so logs stay comparable across backends.
const (
	CodeUnknown               = -1
	CodeNetworkConnectionLost = -1005
	CodeFileNotFound          = -1100
	CodeUnsupportedFormat     = -11828
)

// PlaybackError is a failure reported by the player for a loaded unit.
type PlaybackError struct {
	Code   int
	Reason string
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed (%d): %s", e.Code, e.Reason)
}

// Is matches another PlaybackError by code.
func (e *PlaybackError) Is(target error) bool {
	var other *PlaybackError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// ErrNetworkConnectionLost matches any PlaybackError with CodeNetworkConnectionLost.
var ErrNetworkConnectionLost = &PlaybackError{Code: CodeNetworkConnectionLost, Reason: "network connection lost"}

// IsNetworkLost reports whether err carries CodeNetworkConnectionLost.
func IsNetworkLost(err error) bool {
	return errors.Is(err, ErrNetworkConnectionLost)
}
