package engine

// State is the playback state of an engine.
type State int

const (
	WaitingForSelection State = iota
	Buffering
	Playing
	Paused
	Stopped
	WaitingForConnection
)

var stateNames = map[State]string{
	WaitingForSelection:  "waitingForSelection",
	Buffering:            "buffering",
	Playing:              "playing",
	Paused:               "paused",
	Stopped:              "stopped",
	WaitingForConnection: "waitingForConnection",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Active reports whether the state counts as playing for the coarse status flag.
func (s State) Active() bool {
	return s == Playing || s == Buffering
}
