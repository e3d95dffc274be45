// Package tui renders the player view in the terminal.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/vidsel-cli/vidsel/queue"
	"github.com/vidsel-cli/vidsel/viewmodel"
)

// Navigator moves playback through the queue.
type Navigator interface {
	Next() error
	Previous() error
}

// Options configure the player view.
type Options struct {
	Engine viewmodel.Source
	Queue  *queue.Queue
	Nav    Navigator

	// SeekStep is the drag step of the preview keys.
	SeekStep time.Duration
	// ResumeAt seeks the first item once its duration is known.
	ResumeAt mo.Option[time.Duration]
}

// Run starts the player view on the queue's current item and blocks until
// the user quits or ctx is done.
func Run(ctx context.Context, options *Options) error {
	bubble, err := newBubble(options)
	if err != nil {
		return err
	}
	defer bubble.close()

	_, err = tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
