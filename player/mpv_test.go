package player

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidsel-cli/vidsel/media"
)

func nextEvent(ch <-chan Event) (Event, bool) {
	select {
	case ev := <-ch:
		return ev, true
	case <-time.After(2 * time.Second):
		return Event{}, false
	}
}

func TestMPV(t *testing.T) {
	Convey("Given mpv attached over a socket", t, func() {
		fake := newFakeMPV(t)
		mpv := NewMPV(WithSocket(fake.socket))
		defer mpv.Close()

		events := make(chan Event, 16)
		cancel := mpv.Subscribe(func(ev Event) { events <- ev })
		defer cancel()

		unit, err := NewUnit(media.New("https://example.com/clip.mp4"))
		So(err, ShouldBeNil)

		Convey("Calls before the first Load fail", func() {
			_, err := mpv.TimePos()
			So(errors.Is(err, ErrNotRunning), ShouldBeTrue)
		})

		Convey("Load opens the unit paused and reports ready", func() {
			So(mpv.Load(unit), ShouldBeNil)

			ev, ok := nextEvent(events)
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, EventReady)
			So(ev.Unit, ShouldEqual, unit)

			loads := fake.sent("loadfile")
			So(loads, ShouldHaveLength, 1)
			So(loads[0][1], ShouldEqual, "https://example.com/clip.mp4")
			So(fake.sent("observe_property"), ShouldHaveLength, 1)

			Convey("Properties are read as durations", func() {
				pos, err := mpv.TimePos()
				So(err, ShouldBeNil)
				So(pos, ShouldEqual, 12500*time.Millisecond)

				total, err := mpv.Duration()
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 100*time.Second)
			})

			Convey("Seek returns once playback restarts", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()

				So(mpv.Seek(ctx, 30*time.Second), ShouldBeNil)
				seeks := fake.sent("seek")
				So(seeks, ShouldHaveLength, 1)
				So(seeks[0][1], ShouldEqual, 30.0)
				So(seeks[0][2], ShouldEqual, "absolute+exact")
			})

			Convey("A failed remote load is reported as a lost connection", func() {
				fake.broadcast(map[string]any{"event": "end-file", "reason": "error", "file_error": "loading failed"})

				ev, ok := nextEvent(events)
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, EventFailed)
				So(IsNetworkLost(ev.Err), ShouldBeTrue)
			})

			Convey("End of file is reported as ended", func() {
				fake.broadcast(map[string]any{"event": "end-file", "reason": "eof"})

				ev, ok := nextEvent(events)
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, EventEnded)
			})

			Convey("Duration changes are forwarded", func() {
				fake.broadcast(map[string]any{"event": "property-change", "name": "duration", "data": 42.0})

				ev, ok := nextEvent(events)
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, EventDuration)
				So(ev.Duration, ShouldEqual, 42*time.Second)
			})

			Convey("Unknown properties surface mpv's error", func() {
				_, err := mpv.sendCommand("get_property", "chapter")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "property unavailable")
			})
		})

		Convey("A cancelled subscription gets nothing", func() {
			cancel()
			So(mpv.Load(unit), ShouldBeNil)
			_, ok := nextEvent(events)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given mpv file errors", t, func() {
		remote := &Unit{Target: "https://example.com/a.mp4"}
		local := &Unit{Target: "/videos/a.mp4"}

		So(classify("loading failed", remote).Code, ShouldEqual, CodeNetworkConnectionLost)
		So(classify("loading failed", local).Code, ShouldEqual, CodeUnknown)
		So(classify("Network error", local).Code, ShouldEqual, CodeNetworkConnectionLost)
		So(classify("unrecognized file format", local).Code, ShouldEqual, CodeUnsupportedFormat)
		So(classify("", nil).Reason, ShouldEqual, "unknown error")
	})
}

func TestUnit(t *testing.T) {
	Convey("NewUnit", t, func() {
		Convey("Accepts streams and local files", func() {
			u, err := NewUnit(media.New("https://example.com/a.m3u8"))
			So(err, ShouldBeNil)
			So(u.Remote(), ShouldBeTrue)
			So(u.Title, ShouldEqual, "a")

			u, err = NewUnit(media.Item{Location: "/videos/a.mp4", Title: "A\nclip"})
			So(err, ShouldBeNil)
			So(u.Remote(), ShouldBeFalse)
			So(u.Target, ShouldEqual, "/videos/a.mp4")
			So(u.Title, ShouldEqual, "A clip")
		})

		Convey("Rejects locations without a source", func() {
			_, err := NewUnit(media.Item{})
			So(errors.Is(err, media.ErrNoSource), ShouldBeTrue)

			_, err = NewUnit(media.Item{Location: "ftp://example.com/a.mp4"})
			So(errors.Is(err, media.ErrNoSource), ShouldBeTrue)
		})
	})

	Convey("sanitizeMediaTarget rejects flag injection", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("a.mp4\n--foo")
		So(err, ShouldNotBeNil)
	})
}

func TestPlaybackError(t *testing.T) {
	Convey("PlaybackError matches by code", t, func() {
		err := &PlaybackError{Code: CodeNetworkConnectionLost, Reason: "tcp reset"}
		So(IsNetworkLost(err), ShouldBeTrue)
		So(IsNetworkLost(&PlaybackError{Code: CodeUnknown}), ShouldBeFalse)
		So(err.Error(), ShouldContainSubstring, "-1005")
	})
}
