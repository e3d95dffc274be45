package engine

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vidsel-cli/vidsel/player"
)

type fakePlayer struct {
	mu       sync.Mutex
	loads    []*player.Unit
	calls    []string
	subs     map[int]func(player.Event)
	next     int
	pos      time.Duration
	seeks    []time.Duration
	seekGate chan struct{}
	loadErr  error
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{subs: make(map[int]func(player.Event))}
}

func (f *fakePlayer) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePlayer) Load(u *player.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "load")
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loads = append(f.loads, u)
	return nil
}

func (f *fakePlayer) Play() error  { f.record("play"); return nil }
func (f *fakePlayer) Pause() error { f.record("pause"); return nil }
func (f *fakePlayer) Stop() error  { f.record("stop"); return nil }
func (f *fakePlayer) Close() error { f.record("close"); return nil }

func (f *fakePlayer) Seek(ctx context.Context, pos time.Duration) error {
	f.mu.Lock()
	f.seeks = append(f.seeks, pos)
	gate := f.seekGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.pos = pos
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) TimePos() (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, nil
}

func (f *fakePlayer) Duration() (time.Duration, error) {
	return 0, nil
}

func (f *fakePlayer) Subscribe(fn func(player.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakePlayer) fire(ev player.Event) {
	f.mu.Lock()
	fns := make([]func(player.Event), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (f *fakePlayer) current() *player.Unit {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.loads) == 0 {
		return nil
	}
	return f.loads[len(f.loads)-1]
}

func (f *fakePlayer) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loads)
}

func (f *fakePlayer) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePlayer) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakePlayer) seekTargets() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.seeks...)
}

type scheduled struct {
	delay   time.Duration
	f       func()
	stopped atomic.Bool
}

func (s *scheduled) Stop() bool {
	return !s.stopped.Swap(true)
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*scheduled
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &scheduled{delay: d, f: f}
	c.timers = append(c.timers, s)
	return s
}

func (c *fakeClock) delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		out = append(out, t.delay)
	}
	return out
}

// fire runs the i-th scheduled call even if it was stopped, like a timer
// that had already fired when Stop was called.
func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.f()
}

type fakeRenderer struct{}

func (fakeRenderer) Probe(ctx context.Context, location string) (time.Duration, error) {
	return time.Second, nil
}

func (fakeRenderer) Render(ctx context.Context, location string, at time.Duration) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

type recorder struct {
	ch <-chan Event
}

func (r recorder) next() (Event, bool) {
	select {
	case ev, ok := <-r.ch:
		return ev, ok
	case <-time.After(time.Second):
		return nil, false
	}
}

// until skips events until match accepts one.
func (r recorder) until(match func(Event) bool) (Event, bool) {
	for {
		ev, ok := r.next()
		if !ok {
			return nil, false
		}
		if match(ev) {
			return ev, true
		}
	}
}

// during collects everything received within d.
func (r recorder) during(d time.Duration) []Event {
	var out []Event
	deadline := time.After(d)
	for {
		select {
		case ev := <-r.ch:
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
}

func isState(s State) func(Event) bool {
	return func(ev Event) bool {
		se, ok := ev.(StateEvent)
		return ok && se.State == s
	}
}
