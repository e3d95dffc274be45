package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vidsel-cli/vidsel/media"
)

// Unit is one loaded playback unit built from a media item.
// Units are compared by pointer: every Load gets a fresh one.
type Unit struct {
	Item   media.Item
	Target string
	Title  string
}

// NewUnit resolves item into something the player can open.
func NewUnit(item media.Item) (*Unit, error) {
	u, err := item.Resolve()
	if err != nil {
		return nil, err
	}

	target := u.String()
	if u.Scheme == "file" {
		target = filepath.FromSlash(u.Path)
	}

	target, err = sanitizeMediaTarget(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrNoSource, err)
	}

	return &Unit{
		Item:   item,
		Target: target,
		Title:  sanitizeTitle(item.String()),
	}, nil
}

// Remote reports whether the unit streams over the network.
func (u *Unit) Remote() bool {
	return strings.Contains(u.Target, "://")
}

// sanitizeMediaTarget rejects locations mpv would read as flags.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty location")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("control characters in location")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("location must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "rtmp", "rtsp":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
