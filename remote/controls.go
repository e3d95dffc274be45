// Package remote exposes playback controls and now-playing metadata to the desktop.
package remote

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/queue"
)

const commandTimeout = 5 * time.Second

// ControlledPlayer is what a remote command center can ask for.
type ControlledPlayer interface {
	Play() error
	Pause() error
	PlayPause() error
	Stop() error
	Next() error
	Previous() error
	SeekBy(offset time.Duration) error
	SetPosition(pos time.Duration) error
	Position() time.Duration
	NowPlaying() mo.Option[NowPlaying]
}

// NowPlaying describes the current item for metadata surfaces.
type NowPlaying struct {
	Item   media.Item
	Length time.Duration
}

// Engine is the subset of the playback engine the controls drive.
type Engine interface {
	Play(item media.Item) error
	Pause() error
	Resume() error
	Stop() error
	Seek(ctx context.Context, pos time.Duration) error
	SeekBy(ctx context.Context, offset time.Duration) error
	State() engine.State
	Item() mo.Option[media.Item]
	Elapsed() time.Duration
	Duration() time.Duration
}

// Controls implements ControlledPlayer on top of an engine and its queue.
type Controls struct {
	engine Engine
	queue  *queue.Queue
}

func NewControls(e Engine, q *queue.Queue) *Controls {
	return &Controls{engine: e, queue: q}
}

// Play resumes a paused item or starts the queue's current one.
func (c *Controls) Play() error {
	switch c.engine.State() {
	case engine.Playing, engine.Buffering, engine.WaitingForConnection:
		return nil
	case engine.Paused:
		return c.engine.Resume()
	default:
		return c.playCurrent()
	}
}

func (c *Controls) Pause() error {
	if !c.engine.State().Active() {
		return nil
	}
	return c.engine.Pause()
}

func (c *Controls) PlayPause() error {
	if c.engine.State().Active() {
		return c.engine.Pause()
	}
	return c.Play()
}

func (c *Controls) Stop() error {
	return c.engine.Stop()
}

// Next plays the following queue item. At the end of the queue it does nothing.
func (c *Controls) Next() error {
	if !c.queue.Next() {
		return nil
	}
	return c.playCurrent()
}

func (c *Controls) Previous() error {
	if !c.queue.Previous() {
		return nil
	}
	return c.playCurrent()
}

func (c *Controls) SeekBy(offset time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.engine.SeekBy(ctx, offset)
}

func (c *Controls) SetPosition(pos time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.engine.Seek(ctx, pos)
}

func (c *Controls) Position() time.Duration {
	return c.engine.Elapsed()
}

func (c *Controls) NowPlaying() mo.Option[NowPlaying] {
	item, ok := c.engine.Item().Get()
	if !ok {
		return mo.None[NowPlaying]()
	}
	return mo.Some(NowPlaying{Item: item, Length: c.engine.Duration()})
}

func (c *Controls) playCurrent() error {
	item, ok := c.queue.Current().Get()
	if !ok {
		return engine.ErrNoItem
	}
	return c.engine.Play(item)
}
