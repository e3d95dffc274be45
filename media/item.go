// Package media defines the playable items the queue and engine pass around.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vidsel-cli/vidsel/util"
)

// ErrNoSource is returned when an item has no resolvable location.
var ErrNoSource = errors.New("no resolvable source")

// Item identifies one playable media resource by its location.
type Item struct {
	// Location is a file path or URL.
	Location string `json:"location"`
	// Title is display-only and never part of identity.
	Title string `json:"title,omitempty"`
}

// New returns an item for the given location titled after its file stem.
func New(location string) Item {
	return Item{Location: location, Title: stem(location)}
}

// Equal reports whether both items point at the same location.
func (i Item) Equal(other Item) bool {
	return i.Location == other.Location
}

// IsZero reports whether the item carries no location at all.
func (i Item) IsZero() bool {
	return i.Location == ""
}

// Resolve parses the location into a URL. Bare paths become file URLs.
func (i Item) Resolve() (*url.URL, error) {
	loc := strings.TrimSpace(i.Location)
	if loc == "" {
		return nil, ErrNoSource
	}

	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
	}

	if u.Scheme == "" {
		abs, err := filepath.Abs(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
		}
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
	}

	if u.Scheme != "file" && u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrNoSource, loc)
	}

	return u, nil
}

func (i Item) String() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Location
}

func stem(location string) string {
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		location = u.Path
	}
	base := filepath.Base(location)
	if base == "." || base == "/" {
		return ""
	}
	return util.FileStem(base)
}
