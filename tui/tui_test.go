package tui

import (
	"context"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/event"
	"github.com/vidsel-cli/vidsel/internal/ui"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/queue"
	"github.com/vidsel-cli/vidsel/thumbnail"
	"github.com/vidsel-cli/vidsel/viewmodel"
)

type fakeEngine struct {
	events event.Emitter[engine.Event]

	mu    sync.Mutex
	item  mo.Option[media.Item]
	state engine.State
	calls []string
	seeks []time.Duration
}

func (f *fakeEngine) Subscribe(ctx context.Context, fn func(engine.Event)) {
	f.events.Subscribe(ctx, fn)
}

func (f *fakeEngine) Item() mo.Option[media.Item] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.item
}

func (f *fakeEngine) State() engine.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeEngine) Thumbnails() *thumbnail.Strip { return thumbnail.NewStrip(100) }
func (f *fakeEngine) Elapsed() time.Duration       { return 0 }
func (f *fakeEngine) Duration() time.Duration      { return 0 }

func (f *fakeEngine) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeEngine) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) Play(item media.Item) error {
	f.mu.Lock()
	f.item = mo.Some(item)
	f.state = engine.Playing
	f.mu.Unlock()

	f.events.Emit(engine.StateEvent{For: item, State: engine.Playing})
	return f.record("play " + item.Location)
}

func (f *fakeEngine) Pause() error  { return f.record("pause") }
func (f *fakeEngine) Resume() error { return f.record("resume") }
func (f *fakeEngine) Stop() error   { return f.record("stop") }

func (f *fakeEngine) Seek(ctx context.Context, pos time.Duration) error {
	f.mu.Lock()
	f.seeks = append(f.seeks, pos)
	f.mu.Unlock()
	return f.record("seek")
}

func (f *fakeEngine) SeekForward(ctx context.Context) error  { return f.record("forward") }
func (f *fakeEngine) SeekBackward(ctx context.Context) error { return f.record("backward") }

type fakeNav struct {
	engine *fakeEngine
	queue  *queue.Queue
}

func (n *fakeNav) Next() error {
	if !n.queue.Next() {
		return nil
	}
	return n.engine.Play(n.queue.Current().MustGet())
}

func (n *fakeNav) Previous() error {
	if !n.queue.Previous() {
		return nil
	}
	return n.engine.Play(n.queue.Current().MustGet())
}

// run executes cmd and every command it batches, collecting the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(s)}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBubble(t *testing.T) {
	Convey("Given a player view over a queue of three items", t, func() {
		a, b, c := media.New("/v/a.mp4"), media.New("/v/b.mp4"), media.New("/v/c.mp4")
		q := queue.New()
		q.Set("dir", []media.Item{a, b, c}, 0)

		eng := &fakeEngine{}
		options := &Options{Engine: eng, Queue: q, Nav: &fakeNav{engine: eng, queue: q}}

		bubble, err := newBubble(options)
		So(err, ShouldBeNil)
		defer bubble.close()
		bubble.resize(80, 24)

		So(bubble.model.Item(), ShouldResemble, a)
		So(options.SeekStep, ShouldEqual, defaultSeekStep)

		Convey("Space starts the current item", func() {
			_, cmd := bubble.Update(keyPress(" "))
			run(cmd)
			So(eng.recorded(), ShouldResemble, []string{"play /v/a.mp4"})
		})

		Convey("Next follows the following item once the queue moved", func() {
			_, cmd := bubble.Update(keyPress("n"))
			So(bubble.model.Item(), ShouldResemble, a)

			msgs := run(cmd)
			So(msgs, ShouldResemble, []tea.Msg{skippedMsg{}})
			So(eng.recorded(), ShouldResemble, []string{"play /v/b.mp4"})
			So(q.Index().MustGet(), ShouldEqual, 1)

			_, cmd = bubble.Update(msgs[0])
			So(cmd, ShouldNotBeNil)
			So(bubble.model.Item(), ShouldResemble, b)
			So(bubble.model.Snapshot().State, ShouldEqual, engine.Playing)
		})

		Convey("Previous at the start only notifies", func() {
			_, cmd := bubble.Update(keyPress("b"))
			msgs := run(cmd)
			So(msgs, ShouldResemble, []tea.Msg{ui.NotificationMsg("no more items")})
			So(bubble.model.Item(), ShouldResemble, a)
		})

		Convey("A queue move made elsewhere is followed on refresh", func() {
			So(q.UpdateCurrentIndex(2), ShouldBeTrue)
			bubble.Update(changedMsg{id: bubble.model.ID()})
			So(bubble.model.Item(), ShouldResemble, c)
		})

		Convey("Refreshes for a replaced model are ignored", func() {
			stale := bubble.model.ID()
			_, cmd := bubble.Update(keyPress("n"))
			for _, msg := range run(cmd) {
				bubble.Update(msg)
			}
			So(bubble.model.ID(), ShouldNotEqual, stale)

			_, cmd = bubble.Update(changedMsg{id: stale})
			So(cmd, ShouldBeNil)
		})

		Convey("Errors become notifications", func() {
			_, cmd := bubble.Update(viewmodel.ErrNotCurrent)
			So(run(cmd), ShouldContain, tea.Msg(ui.NotificationMsg("another item is playing")))
		})

		Convey("Picture in picture shows a single line", func() {
			So(bubble.View(), ShouldContainSubstring, "Now Playing")
			So(bubble.View(), ShouldContainSubstring, "1/3")

			bubble.Update(keyPress("p"))
			bubble.Update(changedMsg{id: bubble.model.ID()})
			view := bubble.View()
			So(view, ShouldNotContainSubstring, "Now Playing")
			So(strings.Count(view, "\n"), ShouldEqual, 0)
		})
	})

	Convey("Given a queue that keeps the last item out of reach", t, func() {
		a, b, c := media.New("/v/a.mp4"), media.New("/v/b.mp4"), media.New("/v/c.mp4")
		q := queue.New(queue.WithLegacyIndexBound())
		q.Set("dir", []media.Item{a, b, c}, 1)

		eng := &fakeEngine{}
		bubble, err := newBubble(&Options{Engine: eng, Queue: q, Nav: &fakeNav{engine: eng, queue: q}})
		So(err, ShouldBeNil)
		defer bubble.close()

		Convey("Next stays on the current item and notifies", func() {
			_, cmd := bubble.Update(keyPress("n"))
			msgs := run(cmd)
			So(msgs, ShouldResemble, []tea.Msg{ui.NotificationMsg("no more items")})
			So(bubble.model.Item(), ShouldResemble, b)
			So(eng.recorded(), ShouldBeEmpty)
		})
	})

	Convey("Given a resume position", t, func() {
		a := media.New("/v/a.mp4")
		q := queue.New()
		q.Set("dir", []media.Item{a}, 0)

		eng := &fakeEngine{}
		options := &Options{Engine: eng, Queue: q, Nav: &fakeNav{engine: eng, queue: q}, ResumeAt: mo.Some(30 * time.Second)}
		bubble, err := newBubble(options)
		So(err, ShouldBeNil)
		defer bubble.close()

		So(eng.Play(a), ShouldBeNil)
		eng.events.Emit(engine.DurationEvent{For: a, Total: time.Minute})

		deadline := time.Now().Add(time.Second)
		for bubble.model.Snapshot().Total == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}

		Convey("It seeks once the duration is known", func() {
			_, cmd := bubble.Update(changedMsg{id: bubble.model.ID()})
			run(cmd)

			eng.mu.Lock()
			defer eng.mu.Unlock()
			So(eng.seeks, ShouldResemble, []time.Duration{30 * time.Second})
			So(bubble.resume.IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given an empty queue", t, func() {
		_, err := newBubble(&Options{Engine: &fakeEngine{}, Queue: queue.New()})
		So(err, ShouldEqual, engine.ErrNoItem)
	})
}

func TestRenderImage(t *testing.T) {
	Convey("Given a 4x4 image", t, func() {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for x := 0; x < 4; x++ {
			for y := 0; y < 4; y++ {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}

		Convey("Two pixel rows share a line", func() {
			So(renderImage(img, 4), ShouldHaveLength, 2)
			So(renderImage(img, 2), ShouldHaveLength, 1)
		})

		Convey("Nothing is drawn without room", func() {
			So(renderImage(img, 0), ShouldBeNil)
			So(renderImage(nil, 10), ShouldBeNil)
		})

		Convey("Colors are written as hex", func() {
			So(string(hex(img, 0, 0)), ShouldEqual, "#ff0000")
		})
	})
}
