package engine

import (
	"time"

	"github.com/vidsel-cli/vidsel/media"
)

// Event is anything the engine publishes. Every event names the item it
// belongs to so subscribers can drop updates for items they did not request.
type Event interface {
	Item() media.Item
}

// TimeEvent reports elapsed time. Only sent while playing and not seeking.
type TimeEvent struct {
	For     media.Item
	Elapsed time.Duration
}

// DurationEvent reports the total duration once it is known.
type DurationEvent struct {
	For   media.Item
	Total time.Duration
}

// StateEvent reports every state transition.
type StateEvent struct {
	For   media.Item
	State State
}

// StatusEvent reports changes of the coarse playing flag.
type StatusEvent struct {
	For     media.Item
	Playing bool
}

// ErrorEvent reports a failure. The engine stays usable afterwards.
type ErrorEvent struct {
	For media.Item
	Err error
}

// ThumbnailEvent reports that the thumbnail strip grew to Count frames.
type ThumbnailEvent struct {
	For   media.Item
	Count int
}

// EndedEvent reports that the item played to its end.
type EndedEvent struct {
	For media.Item
}

func (e TimeEvent) Item() media.Item      { return e.For }
func (e DurationEvent) Item() media.Item  { return e.For }
func (e StateEvent) Item() media.Item     { return e.For }
func (e StatusEvent) Item() media.Item    { return e.For }
func (e ErrorEvent) Item() media.Item     { return e.For }
func (e ThumbnailEvent) Item() media.Item { return e.For }
func (e EndedEvent) Item() media.Item     { return e.For }
