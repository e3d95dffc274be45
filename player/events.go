package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/vidsel-cli/vidsel/log"
)

// mpvEvent is one line on the event connection.
type mpvEvent struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// eventListener owns a persistent connection on which mpv pushes events.
// Property observers are per connection, so they are registered here.
type eventListener struct {
	conn     net.Conn
	dispatch func(mpvEvent)
	stopOnce sync.Once
	stopped  chan struct{}
}

var observed = []string{"duration"}

func listenEvents(socketPath string, dispatch func(mpvEvent)) (*eventListener, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, _ := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el := &eventListener{
		conn:     conn,
		dispatch: dispatch,
		stopped:  make(chan struct{}),
	}
	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: %s)", socketPath, strings.Join(observed, ", "))
	return el, nil
}

func (el *eventListener) stop() {
	el.stopOnce.Do(func() {
		close(el.stopped)
		el.conn.Close()
	})
}

func (el *eventListener) readLoop() {
	reader := bufio.NewReader(el.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			select {
			case <-el.stopped:
			default:
				log.Warnf("event listener read error: %v", err)
				el.dispatch(mpvEvent{Event: "shutdown"})
			}
			return
		}

		var ev mpvEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Event == "" {
			continue
		}
		el.dispatch(ev)
	}
}

// dispatch translates raw mpv events into player events for the current unit.
func (m *MPV) dispatch(raw mpvEvent) {
	m.state.Lock()
	unit := m.unit
	m.state.Unlock()

	switch raw.Event {
	case "file-loaded":
		m.emit(Event{Kind: EventReady, Unit: unit})
	case "end-file":
		switch raw.Reason {
		case "eof":
			m.emit(Event{Kind: EventEnded, Unit: unit})
		case "error":
			err := classify(raw.FileError, unit)
			m.logger().WithField("code", err.Code).Warn(err.Reason)
			m.emit(Event{Kind: EventFailed, Unit: unit, Err: err})
		}
	case "playback-restart":
		m.releaseSeekWaiters()
		m.emit(Event{Kind: EventSeeked, Unit: unit})
	case "property-change":
		if raw.Name != "duration" {
			return
		}
		var seconds float64
		if err := json.Unmarshal(raw.Data, &seconds); err != nil || seconds <= 0 {
			return
		}
		m.emit(Event{Kind: EventDuration, Unit: unit, Duration: secondsToDuration(seconds)})
	case "shutdown":
		m.emit(Event{Kind: EventClosed, Unit: unit})
	}
}

func (m *MPV) releaseSeekWaiters() {
	m.state.Lock()
	waiters := m.seekWaiters
	m.seekWaiters = nil
	m.state.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

func (m *MPV) emit(ev Event) {
	m.state.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.state.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// classify maps mpv's file_error text onto a PlaybackError code.
func classify(fileError string, unit *Unit) *PlaybackError {
	reason := strings.ToLower(fileError)
	if reason == "" {
		reason = "unknown error"
	}

	code := CodeUnknown
	switch {
	case containsAny(reason, "network", "connection", "timed out", "timeout", "http error"):
		code = CodeNetworkConnectionLost
	case strings.Contains(reason, "loading failed") && unit != nil && unit.Remote():
		code = CodeNetworkConnectionLost
	case containsAny(reason, "no such file", "not found"):
		code = CodeFileNotFound
	case containsAny(reason, "unrecognized file format", "no audio or video", "no video or audio"):
		code = CodeUnsupportedFormat
	}

	return &PlaybackError{Code: code, Reason: reason}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
