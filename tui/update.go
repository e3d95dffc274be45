package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/internal/ui"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/viewmodel"
)

const seekTimeout = 10 * time.Second

// changedMsg reports that the model with the given id may have new state.
type changedMsg struct {
	id uuid.UUID
}

// skippedMsg reports that the navigator moved the queue.
type skippedMsg struct{}

// Init starts the current item unless the engine already plays it.
func (b *playerBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.waitForChanges()}
	if current, ok := b.options.Engine.Item().Get(); !ok || !current.Equal(b.model.Item()) {
		cmds = append(cmds, b.control(b.model.Play))
	}
	return tea.Batch(cmds...)
}

func (b *playerBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case error:
		log.Warn(msg)
		return b, tea.Batch(cmd, ui.Notify(describe(msg)))
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case changedMsg:
		if msg.id != b.model.ID() {
			return b, cmd
		}
		return b, tea.Batch(cmd, b.refresh())
	case skippedMsg:
		if b.followQueue() {
			return b, tea.Batch(cmd, b.waitForChanges())
		}
	case tea.KeyMsg:
		return b, tea.Batch(cmd, b.handleKey(msg))
	}

	return b, cmd
}

func (b *playerBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := b.keymap
	m := b.model

	switch {
	case key.Matches(msg, k.forceQuit), key.Matches(msg, k.quit):
		return tea.Quit
	case key.Matches(msg, k.toggle):
		return b.control(m.TogglePlayback)
	case key.Matches(msg, k.stop):
		return b.control(m.Stop)
	case key.Matches(msg, k.forward):
		return b.seek(m.SeekForward)
	case key.Matches(msg, k.backward):
		return b.seek(m.SeekBackward)
	case key.Matches(msg, k.dragForward):
		m.DragBy(b.options.SeekStep)
	case key.Matches(msg, k.dragBackward):
		m.DragBy(-b.options.SeekStep)
	case key.Matches(msg, k.commitDrag):
		return b.seek(m.EndDrag)
	case key.Matches(msg, k.cancelDrag):
		m.CancelDrag()
	case key.Matches(msg, k.pip):
		if m.TogglePictureInPicture() {
			return ui.Notify("picture in picture on")
		}
		return ui.Notify("picture in picture off")
	case key.Matches(msg, k.next):
		return b.skip(b.options.Nav.Next)
	case key.Matches(msg, k.previous):
		return b.skip(b.options.Nav.Previous)
	case key.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

// refresh pulls the latest snapshot, follows queue moves made elsewhere
// and applies a pending resume position.
func (b *playerBubble) refresh() tea.Cmd {
	b.followQueue()

	b.snap = b.model.Snapshot()
	cmds := []tea.Cmd{b.waitForChanges()}

	if at, ok := b.resume.Get(); ok && b.snap.Total > 0 && b.snap.State == engine.Playing {
		b.resume = mo.None[time.Duration]()
		m := b.model
		cmds = append(cmds, b.seek(func(ctx context.Context) error {
			m.Drag(at)
			return m.EndDrag(ctx)
		}))
	}

	return tea.Batch(cmds...)
}

func (b *playerBubble) waitForChanges() tea.Cmd {
	m := b.model
	return func() tea.Msg {
		select {
		case <-m.Changes():
		case <-time.After(refreshInterval):
		}
		return changedMsg{id: m.ID()}
	}
}

// followQueue switches to the queue's current item when it differs from
// the shown one and reports whether it did.
func (b *playerBubble) followQueue() bool {
	current, ok := b.options.Queue.Current().Get()
	if !ok || current.Equal(b.model.Item()) {
		return false
	}

	b.follow(current)
	b.resume = mo.None[time.Duration]()
	return true
}

// skip runs move. The view follows only when the queue accepted the move.
func (b *playerBubble) skip(move func() error) tea.Cmd {
	q := b.options.Queue
	return func() tea.Msg {
		before := q.Index()
		if err := move(); err != nil {
			return err
		}
		if q.Index() == before {
			return ui.NotificationMsg("no more items")
		}
		return skippedMsg{}
	}
}

func (b *playerBubble) control(call func() error) tea.Cmd {
	return func() tea.Msg {
		if err := call(); err != nil {
			return err
		}
		return nil
	}
}

func (b *playerBubble) seek(call func(context.Context) error) tea.Cmd {
	return b.control(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), seekTimeout)
		defer cancel()
		return call(ctx)
	})
}

func describe(err error) string {
	switch {
	case errors.Is(err, viewmodel.ErrNotCurrent):
		return "another item is playing"
	case errors.Is(err, context.DeadlineExceeded):
		return "seek timed out"
	default:
		return err.Error()
	}
}
