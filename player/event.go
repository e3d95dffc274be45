package player

import "time"

// EventKind enumerates what a player can report.
type EventKind int

const (
	// EventReady means the unit is ready to play.
	EventReady EventKind = iota
	// EventFailed carries a *PlaybackError in Err.
	EventFailed
	// EventEnded means the unit played to its end.
	EventEnded
	// EventDuration carries the newly known total duration.
	EventDuration
	// EventSeeked means a seek completed.
	EventSeeked
	// EventInterruption carries Began and ShouldResume.
	EventInterruption
	// EventClosed means the player went away and will not report again.
	EventClosed
)

var eventKindNames = map[EventKind]string{
	EventReady:        "ready",
	EventFailed:       "failed",
	EventEnded:        "ended",
	EventDuration:     "duration",
	EventSeeked:       "seeked",
	EventInterruption: "interruption",
	EventClosed:       "closed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a player notification about Unit.
type Event struct {
	Kind EventKind
	Unit *Unit

	Err          error
	Duration     time.Duration
	Began        bool
	ShouldResume bool
}
