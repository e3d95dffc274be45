package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/internal/ui"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
	"github.com/vidsel-cli/vidsel/viewmodel"
)

const (
	defaultSeekStep = 15 * time.Second
	refreshInterval = 250 * time.Millisecond
	maxPreviewWidth = 48
)

// playerBubble is the bubbletea model of the player view. It owns one
// view-model at a time and swaps it when the queue moves.
type playerBubble struct {
	options *Options
	keymap  *playerKeymap

	model  *viewmodel.Model
	snap   viewmodel.Snapshot
	resume mo.Option[time.Duration]

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	width, height int
}

func newBubble(options *Options) (*playerBubble, error) {
	item, ok := options.Queue.Current().Get()
	if !ok {
		return nil, engine.ErrNoItem
	}

	if options.SeekStep <= 0 {
		options.SeekStep = defaultSeekStep
	}

	b := &playerBubble{
		options:  options,
		keymap:   newPlayerKeymap(),
		resume:   options.ResumeAt,
		helpC:    help.New(),
		notifier: &ui.Model{},
		progressC: progress.New(
			progress.WithGradient(string(style.SecondaryColor), string(style.AccentColor)),
			progress.WithoutPercentage(),
		),
	}
	b.follow(item)

	if width, height, err := util.TerminalSize(); err == nil {
		b.resize(width, height)
	}

	return b, nil
}

// follow replaces the view-model with one for item. A model opened after
// the engine started item picks up its state from the engine.
func (b *playerBubble) follow(item media.Item) {
	if b.model != nil {
		if b.model.Item().Equal(item) {
			return
		}
		b.model.Close()
	}

	b.model = viewmodel.New(b.options.Engine, item)
	b.snap = b.model.Snapshot()
	log.WithFields(logrus.Fields{"session": b.model.ID().String(), "item": item.Location}).Debug("following item")
}

func (b *playerBubble) close() {
	if b.model != nil {
		b.model.Close()
	}
}

func (b *playerBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}
