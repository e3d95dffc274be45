// Package viewmodel adapts a shared playback engine to one screen. A model
// only reflects events that belong to the item it requested itself.
package viewmodel

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/thumbnail"
	"github.com/vidsel-cli/vidsel/util"
)

// ErrNotCurrent is returned by controls while the engine plays another item.
var ErrNotCurrent = errors.New("engine is playing another item")

// Source is the part of the engine a model drives.
type Source interface {
	Subscribe(ctx context.Context, fn func(engine.Event))
	Item() mo.Option[media.Item]
	State() engine.State
	Thumbnails() *thumbnail.Strip
	Elapsed() time.Duration
	Duration() time.Duration

	Play(item media.Item) error
	Pause() error
	Resume() error
	Stop() error
	Seek(ctx context.Context, pos time.Duration) error
	SeekForward(ctx context.Context) error
	SeekBackward(ctx context.Context) error
}

// Snapshot is what a view renders.
type Snapshot struct {
	Item    media.Item
	Elapsed time.Duration
	Total   time.Duration
	Playing bool
	State   engine.State
	Ended   bool
	Err     error

	PictureInPicture bool

	Frames       int
	Dragging     bool
	DragPosition time.Duration
	Preview      mo.Option[thumbnail.Frame]
	PreviewIndex int
}

// Model is safe for concurrent use.
type Model struct {
	id   uuid.UUID
	src  Source
	item media.Item

	mu   sync.RWMutex
	snap Snapshot

	changes chan struct{}
	cancel  context.CancelFunc
	logger  *logrus.Entry
}

// New subscribes a model for item to src.
func New(src Source, item media.Item) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		id:      uuid.New(),
		src:     src,
		item:    item,
		changes: make(chan struct{}, 1),
		cancel:  cancel,
		snap:    Snapshot{Item: item, PreviewIndex: -1},
	}
	m.logger = log.WithFields(logrus.Fields{"session": m.id.String(), "item": item.Location})

	if m.owns() {
		m.snap.State = src.State()
		m.snap.Playing = m.snap.State.Active()
		m.snap.Frames = src.Thumbnails().Len()
		m.snap.Elapsed = src.Elapsed()
		m.snap.Total = src.Duration()
	}

	src.Subscribe(ctx, m.apply)
	return m
}

// ID identifies the model in logs.
func (m *Model) ID() uuid.UUID {
	return m.id
}

// Item returns the item the model was created for.
func (m *Model) Item() media.Item {
	return m.item
}

// Snapshot returns the current view state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snap
}

// Changes signals after updates. Signals coalesce, so read Snapshot after each.
func (m *Model) Changes() <-chan struct{} {
	return m.changes
}

func (m *Model) owns() bool {
	current, ok := m.src.Item().Get()
	return ok && current.Equal(m.item)
}

func (m *Model) apply(ev engine.Event) {
	if !ev.Item().Equal(m.item) {
		return
	}

	m.mu.Lock()
	switch ev := ev.(type) {
	case engine.TimeEvent:
		m.snap.Elapsed = ev.Elapsed
	case engine.DurationEvent:
		m.snap.Total = ev.Total
	case engine.StateEvent:
		m.snap.State = ev.State
		m.snap.Playing = ev.State.Active()
		if ev.State == engine.Playing {
			m.snap.Ended = false
			m.snap.Err = nil
		}
	case engine.StatusEvent:
		m.snap.Playing = ev.Playing
	case engine.ErrorEvent:
		m.snap.Err = ev.Err
	case engine.ThumbnailEvent:
		m.snap.Frames = ev.Count
		if m.snap.Dragging {
			m.previewLocked()
		}
	case engine.EndedEvent:
		m.snap.Ended = true
	}
	m.mu.Unlock()

	m.notify()
}

func (m *Model) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Play asks the engine to play this model's item.
func (m *Model) Play() error {
	m.logger.Info("play requested")
	return m.src.Play(m.item)
}

// TogglePlayback pauses, resumes or starts the item depending on its state.
func (m *Model) TogglePlayback() error {
	if !m.owns() {
		return m.Play()
	}

	switch m.src.State() {
	case engine.Playing, engine.Buffering:
		return m.src.Pause()
	case engine.Paused:
		return m.src.Resume()
	default:
		return m.Play()
	}
}

func (m *Model) Pause() error {
	return m.control(m.src.Pause)
}

func (m *Model) Resume() error {
	return m.control(m.src.Resume)
}

func (m *Model) Stop() error {
	return m.control(m.src.Stop)
}

func (m *Model) SeekForward(ctx context.Context) error {
	return m.control(func() error { return m.src.SeekForward(ctx) })
}

func (m *Model) SeekBackward(ctx context.Context) error {
	return m.control(func() error { return m.src.SeekBackward(ctx) })
}

func (m *Model) control(call func() error) error {
	if !m.owns() {
		return ErrNotCurrent
	}
	return call()
}

// Drag moves the seek handle to pos and updates the preview frame.
func (m *Model) Drag(pos time.Duration) {
	m.mu.Lock()
	if m.snap.Total > 0 {
		pos = util.Clamp(pos, 0, m.snap.Total)
	} else if pos < 0 {
		pos = 0
	}
	m.snap.Dragging = true
	m.snap.DragPosition = pos
	m.previewLocked()
	m.mu.Unlock()

	m.notify()
}

// DragBy moves the seek handle relative to its position, starting from
// the elapsed time when no drag is in progress.
func (m *Model) DragBy(offset time.Duration) {
	m.mu.RLock()
	from := m.snap.Elapsed
	if m.snap.Dragging {
		from = m.snap.DragPosition
	}
	m.mu.RUnlock()

	m.Drag(from + offset)
}

// EndDrag seeks to the dragged position.
func (m *Model) EndDrag(ctx context.Context) error {
	m.mu.Lock()
	if !m.snap.Dragging {
		m.mu.Unlock()
		return nil
	}
	pos := m.snap.DragPosition
	m.snap.Dragging = false
	m.snap.Preview = mo.None[thumbnail.Frame]()
	m.snap.PreviewIndex = -1
	m.mu.Unlock()

	m.notify()
	return m.control(func() error { return m.src.Seek(ctx, pos) })
}

// CancelDrag leaves the position untouched.
func (m *Model) CancelDrag() {
	m.mu.Lock()
	m.snap.Dragging = false
	m.snap.Preview = mo.None[thumbnail.Frame]()
	m.snap.PreviewIndex = -1
	m.mu.Unlock()

	m.notify()
}

func (m *Model) previewLocked() {
	m.snap.Preview = mo.None[thumbnail.Frame]()
	m.snap.PreviewIndex = -1
	if !m.owns() {
		return
	}

	strip := m.src.Thumbnails()
	idx, ok := PreviewIndex(m.snap.DragPosition, m.snap.Total, strip.Len())
	if !ok {
		return
	}

	if frame, ok := strip.At(idx); ok {
		m.snap.Preview = mo.Some(frame)
		m.snap.PreviewIndex = idx
	}
}

// TogglePictureInPicture flips the picture-in-picture flag and returns it.
func (m *Model) TogglePictureInPicture() bool {
	m.mu.Lock()
	m.snap.PictureInPicture = !m.snap.PictureInPicture
	on := m.snap.PictureInPicture
	m.mu.Unlock()

	m.notify()
	return on
}

// Close cancels the subscription. The engine keeps running.
func (m *Model) Close() {
	m.cancel()
}

// PreviewIndex maps a seek position to a frame of a strip with frameCount
// frames. There is no preview for an empty strip or an unknown total.
func PreviewIndex(current, total time.Duration, frameCount int) (int, bool) {
	if frameCount <= 0 || total <= 0 {
		return -1, false
	}

	f := util.Clamp(float64(current)/float64(total), 0, 1)
	idx := int(math.Floor(f * float64(frameCount-1)))
	return util.Clamp(idx, 0, frameCount-1), true
}
