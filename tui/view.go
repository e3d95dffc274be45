package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/nfnt/resize"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
	"github.com/vidsel-cli/vidsel/viewmodel"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *playerBubble) View() string {
	if b.snap.PictureInPicture {
		return b.notifier.View(b.viewCompact())
	}
	return b.notifier.View(b.viewPlayer())
}

// viewCompact is the single line shown in picture in picture mode.
func (b *playerBubble) viewCompact() string {
	line := fmt.Sprintf("%s %s %s", stateIcon(b.snap), b.timing(), b.snap.Item.Title)
	return b.truncate(line)
}

func (b *playerBubble) viewPlayer() string {
	s := b.snap

	header := style.Title("Now Playing")
	if s.Err != nil {
		header = style.ErrorTitle("Now Playing")
	}

	lines := []string{
		header,
		"",
		b.truncate(fmt.Sprintf("%s %s", stateIcon(s), style.Fg(color.Purple)(s.Item.Title))),
		b.truncate(style.Faint(s.Item.Location)),
		"",
		b.progressC.ViewAs(b.percent()),
		b.truncate(fmt.Sprintf("%s  %s  %s", b.timing(), stateTag(s.State), b.position())),
	}

	if s.Dragging {
		lines = append(lines, "", b.truncate(b.previewCaption()))
		if frame, ok := s.Preview.Get(); ok {
			lines = append(lines, renderImage(frame.Image, min(b.width, maxPreviewWidth))...)
		}
	}

	if s.Ended {
		lines = append(lines, "", icon.Get(icon.Success)+" Finished")
	}

	if s.Err != nil {
		body := style.Fg(color.Red)(s.Err.Error())
		lines = append(lines, "", icon.Get(icon.Fail)+" Playback failed:", wrap.String(body, max(b.width, 1)))
	}

	return b.renderLines(lines)
}

func (b *playerBubble) renderLines(lines []string) string {
	h := len(lines) + lipgloss.Height(b.helpC.View(b.keymap))
	l := strings.Join(lines, "\n")
	if b.height > h {
		l += strings.Repeat("\n", b.height-h)
	}
	l += "\n" + b.helpC.View(b.keymap)

	return paddingStyle.Render(l)
}

func (b *playerBubble) truncate(s string) string {
	if b.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width), "…")
}

func (b *playerBubble) percent() float64 {
	s := b.snap
	if s.Total <= 0 {
		return 0
	}

	at := s.Elapsed
	if s.Dragging {
		at = s.DragPosition
	}
	return util.Clamp(float64(at)/float64(s.Total), 0, 1)
}

func (b *playerBubble) timing() string {
	return fmt.Sprintf("%s / %s", util.FormatDuration(b.snap.Elapsed), util.FormatDuration(b.snap.Total))
}

func (b *playerBubble) position() string {
	idx, ok := b.options.Queue.Index().Get()
	if !ok {
		return ""
	}
	return style.Faint(fmt.Sprintf("%d/%d", idx+1, b.options.Queue.Len()))
}

func (b *playerBubble) previewCaption() string {
	s := b.snap
	caption := fmt.Sprintf("%s preview %s", icon.Get(icon.Progress), util.FormatDuration(s.DragPosition))
	if s.PreviewIndex < 0 {
		return caption + style.Faint(" (no thumbnails yet)")
	}
	return caption + style.Faint(fmt.Sprintf(" (frame %d of %d)", s.PreviewIndex+1, s.Frames))
}

func stateIcon(s viewmodel.Snapshot) string {
	switch s.State {
	case engine.Playing:
		return icon.Get(icon.Play)
	case engine.Paused:
		return icon.Get(icon.Pause)
	case engine.Buffering:
		return icon.Get(icon.Buffering)
	case engine.WaitingForConnection:
		return icon.Get(icon.Offline)
	case engine.Stopped:
		return icon.Get(icon.Stop)
	default:
		return icon.Get(icon.Waiting)
	}
}

func stateTag(s engine.State) string {
	bg := style.FaintColor
	switch s {
	case engine.Playing:
		bg = style.SuccessColor
	case engine.Buffering, engine.WaitingForConnection:
		bg = style.WarningColor
	case engine.Stopped:
		bg = style.ErrorColor
	}
	return style.Tag(style.Base, bg)(s.String())
}

// renderImage draws img with half blocks, two pixel rows per line.
func renderImage(img image.Image, width int) []string {
	if img == nil || width <= 0 {
		return nil
	}

	scaled := resize.Resize(uint(width), 0, img, resize.NearestNeighbor)
	bounds := scaled.Bounds()

	var lines []string
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		var sb strings.Builder
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			upper := hex(scaled, x, y)
			lower := upper
			if y+1 < bounds.Max.Y {
				lower = hex(scaled, x, y+1)
			}
			sb.WriteString(style.Pixel(upper, lower))
		}
		lines = append(lines, sb.String())
	}

	return lines
}

func hex(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
