// Package engine drives a media player through playback states, publishing
// elapsed time, duration, state and thumbnail progress for one item at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/event"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/player"
	"github.com/vidsel-cli/vidsel/thumbnail"
	"github.com/vidsel-cli/vidsel/util"
)

var (
	// ErrNoSource is reported when an item has no resolvable location.
	ErrNoSource = media.ErrNoSource
	// ErrNoItem is returned by controls used before anything was played.
	ErrNoItem = errors.New("nothing selected")
	// ErrStopped is returned by Pause and Resume once the item was stopped
	// or ended. Only a new Play leaves that state.
	ErrStopped = errors.New("playback stopped")
	// ErrRetriesExhausted wraps the last failure once reloads are given up.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Engine owns one player and plays one item at a time. Every Play starts a
// new generation: observers, the elapsed-time poller, thumbnail work and
// pending retries of earlier generations become no-ops.
type Engine struct {
	player   player.Player
	renderer thumbnail.Renderer
	opts     options

	events event.Emitter[Event]

	mu      sync.Mutex
	gen     uint64
	state   State
	item    mo.Option[media.Item]
	unit    *player.Unit
	retries int
	// holdPaused keeps a reload paused when Pause was asked for while
	// waiting for the connection.
	holdPaused bool
	seeking    bool
	seekEpoch  uint64
	status     bool
	elapsed    time.Duration
	duration   time.Duration
	strip      *thumbnail.Strip

	detach       func()
	stopTicker   chan struct{}
	cancelThumbs context.CancelFunc
	retryTimer   Timer
}

// New returns an engine driving p. A nil renderer disables thumbnails.
func New(p player.Player, r thumbnail.Renderer, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		player:   p,
		renderer: r,
		opts:     o,
		strip:    thumbnail.NewStrip(o.maxThumbnails),
	}
}

// Listen streams every event until ctx is done.
func (e *Engine) Listen(ctx context.Context) <-chan Event {
	return e.events.Listen(ctx)
}

// Subscribe calls fn for every event until ctx is done.
func (e *Engine) Subscribe(ctx context.Context, fn func(Event)) {
	e.events.Subscribe(ctx, fn)
}

// OnStatus calls fn whenever the coarse playing flag changes.
func (e *Engine) OnStatus(ctx context.Context, fn func(item media.Item, playing bool)) {
	e.events.Subscribe(ctx, func(ev Event) {
		if s, ok := ev.(StatusEvent); ok {
			fn(s.For, s.Playing)
		}
	})
}

// OnError calls fn for every reported failure.
func (e *Engine) OnError(ctx context.Context, fn func(item media.Item, err error)) {
	e.events.Subscribe(ctx, func(ev Event) {
		if s, ok := ev.(ErrorEvent); ok {
			fn(s.For, s.Err)
		}
	})
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Item returns the item of the current generation.
func (e *Engine) Item() mo.Option[media.Item] {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.item
}

// Thumbnails returns the strip of the current item.
func (e *Engine) Thumbnails() *thumbnail.Strip {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.strip
}

// Elapsed returns the last reported elapsed time.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.elapsed
}

// Duration returns the total duration once known.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.duration
}

// SeekStep returns the offset used by SeekForward and SeekBackward.
func (e *Engine) SeekStep() time.Duration {
	return e.opts.seekStep
}

func (e *Engine) logger() *logrus.Entry {
	fields := logrus.Fields{"state": e.state}
	if item, ok := e.item.Get(); ok {
		fields["item"] = item.Location
	}
	return log.WithFields(fields)
}

// Play replaces the current item with item and starts it.
func (e *Engine) Play(item media.Item) error {
	e.mu.Lock()
	e.teardownLocked()
	e.gen++
	gen := e.gen
	e.resetStripLocked()
	e.item = mo.Some(item)
	e.elapsed, e.duration = 0, 0
	e.holdPaused = false

	unit, err := player.NewUnit(item)
	if err != nil {
		e.unit = nil
		err = fmt.Errorf("play %q: %w", item.Location, err)
		e.reportLocked(err)
		e.setStateLocked(Stopped)
		e.mu.Unlock()
		_ = e.player.Stop()
		return err
	}

	e.unit = unit
	e.detach = e.player.Subscribe(func(ev player.Event) { e.handle(gen, ev) })
	e.startTickerLocked(gen)
	e.startThumbnailsLocked(gen, unit)
	e.setStateLocked(Playing)
	e.retries = 0
	e.logger().Info("playing")
	e.mu.Unlock()

	return e.start(gen, unit, false)
}

// start loads unit and unpauses it, or keeps it paused when paused is set.
// Failures stop the generation.
func (e *Engine) start(gen uint64, unit *player.Unit, paused bool) error {
	err := e.player.Load(unit)
	if err == nil && paused {
		err = e.player.Pause()
	} else if err == nil {
		err = e.player.Play()
	}
	if err == nil {
		return nil
	}

	err = fmt.Errorf("start %q: %w", unit.Target, err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return err
	}

	e.logger().Error(err)
	e.reportLocked(err)
	e.teardownLocked()
	e.setStateLocked(Stopped)
	return err
}

// Pause pauses the current item.
func (e *Engine) Pause() error {
	return e.control(Paused, e.player.Pause)
}

// Resume continues the current item.
func (e *Engine) Resume() error {
	return e.control(Playing, e.player.Play)
}

func (e *Engine) control(to State, call func() error) error {
	e.mu.Lock()
	switch {
	case e.item.IsAbsent():
		e.mu.Unlock()
		return ErrNoItem
	case e.unit == nil || e.state == Stopped:
		e.mu.Unlock()
		return ErrStopped
	case e.state == WaitingForConnection:
		// the pending reload decides which way it starts
		e.holdPaused = to == Paused
		e.logger().WithField("paused", e.holdPaused).Info("reload pending")
		e.mu.Unlock()
		return nil
	}
	gen := e.gen
	e.mu.Unlock()

	err := call()

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return err
	}
	if err != nil {
		e.reportLocked(err)
	}
	if to == Playing && e.stopTicker == nil && e.unit != nil {
		e.startTickerLocked(gen)
	}
	e.setStateLocked(to)
	return err
}

// Stop stops the current item, detaches its observers and clears the
// thumbnail strip. The engine can play again afterwards.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.teardownLocked()
	e.gen++
	e.resetStripLocked()
	e.unit = nil
	e.holdPaused = false
	e.setStateLocked(Stopped)
	e.mu.Unlock()

	if err := e.player.Stop(); err != nil {
		e.mu.Lock()
		e.reportLocked(err)
		e.mu.Unlock()
		return err
	}
	return nil
}

// Seek jumps to pos. While playing the engine passes through Buffering and
// stops reporting elapsed time until the seek completes.
func (e *Engine) Seek(ctx context.Context, pos time.Duration) error {
	e.mu.Lock()
	if e.unit == nil {
		e.mu.Unlock()
		return ErrNoItem
	}
	gen := e.gen
	wasPlaying := e.state == Playing
	if wasPlaying {
		e.seeking = true
		e.seekEpoch++
		e.setStateLocked(Buffering)
	}
	e.mu.Unlock()

	err := e.player.Seek(ctx, pos)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return err
	}
	if err != nil {
		e.reportLocked(fmt.Errorf("seek to %s: %w", pos, err))
	} else {
		e.elapsed = pos
	}

	if wasPlaying {
		e.seeking = false
		if e.state == Buffering {
			e.setStateLocked(Playing)
			e.emitLocked(TimeEvent{For: e.item.MustGet(), Elapsed: e.elapsed})
		}
	}
	return err
}

// SeekBy seeks relative to the current position, clamped to the item.
func (e *Engine) SeekBy(ctx context.Context, offset time.Duration) error {
	pos, err := e.player.TimePos()
	if err != nil {
		pos = e.Elapsed()
	}

	target := pos + offset
	if total := e.Duration(); total > 0 {
		target = util.Clamp(target, 0, total)
	} else if target < 0 {
		target = 0
	}

	return e.Seek(ctx, target)
}

func (e *Engine) SeekForward(ctx context.Context) error {
	return e.SeekBy(ctx, e.opts.seekStep)
}

func (e *Engine) SeekBackward(ctx context.Context) error {
	return e.SeekBy(ctx, -e.opts.seekStep)
}

// HandleInterruption pauses when an interruption begins and resumes when
// it ends, if the platform says resuming is appropriate.
func (e *Engine) HandleInterruption(began, shouldResume bool) error {
	if began {
		return e.Pause()
	}
	if shouldResume {
		return e.Resume()
	}
	return nil
}

// Close stops playback, releases the player and detaches every listener.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.teardownLocked()
	e.gen++
	e.mu.Unlock()

	err := e.player.Close()
	e.events.Close()
	return err
}

// handle reacts to player events of generation gen.
func (e *Engine) handle(gen uint64, ev player.Event) {
	e.mu.Lock()
	if gen != e.gen || ev.Unit != e.unit || e.unit == nil {
		e.mu.Unlock()
		return
	}

	var followUp func()
	switch ev.Kind {
	case player.EventReady:
		e.retries = 0
		if e.state == Buffering && !e.seeking {
			if e.holdPaused {
				e.holdPaused = false
				e.stopTickerLocked()
				e.setStateLocked(Paused)
			} else {
				e.setStateLocked(Playing)
			}
		}
	case player.EventDuration:
		e.duration = ev.Duration
		e.emitLocked(DurationEvent{For: e.item.MustGet(), Total: ev.Duration})
	case player.EventFailed:
		e.failLocked(gen, ev.Err)
	case player.EventEnded:
		e.stopTickerLocked()
		e.setStateLocked(Stopped)
		e.emitLocked(EndedEvent{For: e.item.MustGet()})
	case player.EventClosed:
		e.teardownLocked()
		e.unit = nil
		e.setStateLocked(Stopped)
	case player.EventInterruption:
		began, resume := ev.Began, ev.ShouldResume
		followUp = func() { _ = e.HandleInterruption(began, resume) }
	}
	e.mu.Unlock()

	if followUp != nil {
		followUp()
	}
}

// resetStripLocked swaps in an empty strip and tells listeners when
// frames were dropped.
func (e *Engine) resetStripLocked() {
	dropped := e.strip.Len()
	e.strip = thumbnail.NewStrip(e.opts.maxThumbnails)
	if item, ok := e.item.Get(); ok && dropped > 0 {
		e.emitLocked(ThumbnailEvent{For: item, Count: 0})
	}
}

func (e *Engine) setStateLocked(s State) {
	e.state = s
	item := e.item.OrEmpty()
	e.emitLocked(StateEvent{For: item, State: s})

	if s.Active() != e.status {
		e.status = s.Active()
		e.emitLocked(StatusEvent{For: item, Playing: e.status})
	}
}

func (e *Engine) emitLocked(ev Event) {
	e.events.Emit(ev)
}

func (e *Engine) reportLocked(err error) {
	e.logger().Warn(err)
	e.emitLocked(ErrorEvent{For: e.item.OrEmpty(), Err: err})
}

// teardownLocked detaches everything bound to the current generation.
func (e *Engine) teardownLocked() {
	if e.detach != nil {
		e.detach()
		e.detach = nil
	}
	e.stopTickerLocked()
	if e.cancelThumbs != nil {
		e.cancelThumbs()
		e.cancelThumbs = nil
	}
	if e.retryTimer != nil {
		e.retryTimer.Stop()
		e.retryTimer = nil
	}
	e.seeking = false
}

func (e *Engine) stopTickerLocked() {
	if e.stopTicker != nil {
		close(e.stopTicker)
		e.stopTicker = nil
	}
}

// startTickerLocked polls elapsed time for generation gen.
func (e *Engine) startTickerLocked(gen uint64) {
	stop := make(chan struct{})
	e.stopTicker = stop

	go func() {
		ticker := time.NewTicker(e.opts.timeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			e.mu.Lock()
			epoch, ok := e.seekEpoch, e.reportsTimeLocked(gen)
			e.mu.Unlock()
			if !ok {
				continue
			}

			pos, err := e.player.TimePos()
			if err != nil {
				continue
			}

			e.mu.Lock()
			if e.reportsTimeLocked(gen) && epoch == e.seekEpoch {
				e.elapsed = pos
				e.emitLocked(TimeEvent{For: e.item.MustGet(), Elapsed: pos})
			}
			e.mu.Unlock()
		}
	}()
}

func (e *Engine) reportsTimeLocked(gen uint64) bool {
	return gen == e.gen && e.state == Playing && !e.seeking
}

func (e *Engine) startThumbnailsLocked(gen uint64, unit *player.Unit) {
	if e.renderer == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelThumbs = cancel
	strip := e.strip
	item := unit.Item

	go func() {
		err := thumbnail.Generate(ctx, e.renderer, unit.Target, strip, thumbnail.Options{
			Max:     e.opts.maxThumbnails,
			Workers: e.opts.thumbnailWorkers,
			OnGrow: func(n int) {
				e.mu.Lock()
				defer e.mu.Unlock()
				if gen == e.gen {
					e.emitLocked(ThumbnailEvent{For: item, Count: n})
				}
			},
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithFields(logrus.Fields{"item": item.Location}).Warnf("thumbnails: %v", err)
		}
	}()
}
