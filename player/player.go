// Package player abstracts the platform media player the playback engine drives.
// The primary backend talks to mpv over its JSON-IPC socket.
package player

import (
	"context"
	"time"
)

// Player is a single-item media player.
type Player interface {
	// Load replaces the current unit with u. Playback stays paused until Play.
	Load(u *Unit) error

	Play() error
	Pause() error

	// Stop unloads the current unit.
	Stop() error

	// Seek jumps to pos with zero tolerance and returns once the player
	// reports the seek completed or ctx is done.
	Seek(ctx context.Context, pos time.Duration) error

	// TimePos returns the elapsed time of the current unit.
	TimePos() (time.Duration, error)

	// Duration returns the total duration of the current unit once known.
	Duration() (time.Duration, error)

	// Subscribe registers fn for player events until cancel is called.
	Subscribe(fn func(Event)) (cancel func())

	// Close releases the player process and every subscription.
	Close() error
}
