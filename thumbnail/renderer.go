package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// Renderer extracts frames from a media location.
type Renderer interface {
	// Probe returns the duration of the media at location.
	Probe(ctx context.Context, location string) (time.Duration, error)

	// Render returns the frame shown at the given time.
	Render(ctx context.Context, location string, at time.Duration) (image.Image, error)
}

// FFmpeg renders frames by shelling out to ffmpeg and ffprobe.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string

	// Width frames are scaled down to. Zero keeps the source size.
	Width int
}

func NewFFmpeg(ffmpegPath, ffprobePath string, width int) *FFmpeg {
	return &FFmpeg{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Width:       width,
	}
}

func (f *FFmpeg) Probe(ctx context.Context, location string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.FFprobePath, probeArgs(location)...)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", location, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration %q: %w", location, out, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func (f *FFmpeg) Render(ctx context.Context, location string, at time.Duration) (image.Image, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.FFmpegPath, renderArgs(location, at)...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame at %s: %w: %s", at, err, strings.TrimSpace(stderr.String()))
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame at %s: %w", at, err)
	}

	return scale(img, f.Width), nil
}

func probeArgs(location string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		location,
	}
}

func renderArgs(location string, at time.Duration) []string {
	return []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", location,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	}
}

// scale shrinks img to width keeping its aspect ratio. Smaller images are left alone.
func scale(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Bilinear)
}
