package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/style"
)

type playerKeymap struct {
	quit, forceQuit,
	toggle,
	forward, backward,
	dragForward, dragBackward, commitDrag, cancelDrag,
	pip,
	next, previous,
	stop,
	showHelp key.Binding
}

func newPlayerKeymap() *playerKeymap {
	return &playerKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		backward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		dragForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "preview later"),
		),
		dragBackward: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "preview earlier"),
		),
		commitDrag: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump to preview"),
		),
		cancelDrag: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel preview"),
		),
		pip: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "picture in picture"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		previous: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "previous"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *playerKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.backward, k.forward, k.dragBackward, k.dragForward, k.showHelp, k.quit}
}

func (k *playerKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.stop, k.backward, k.forward},
		{k.dragBackward, k.dragForward, k.commitDrag, k.cancelDrag},
		{k.previous, k.next, k.pip},
		{k.showHelp, k.quit, k.forceQuit},
	}
}
