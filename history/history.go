// Package history remembers where each media item was left off.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/where"
)

// Record is the saved progress of one item.
type Record struct {
	Location  string        `json:"location" jsonschema:"description=Path or URL of the item."`
	Title     string        `json:"title" jsonschema:"description=Display title of the item."`
	Position  time.Duration `json:"position" jsonschema:"description=Playback position in nanoseconds."`
	Duration  time.Duration `json:"duration" jsonschema:"description=Length of the item in nanoseconds."`
	UpdatedAt time.Time     `json:"updated_at" jsonschema:"description=When the position was saved."`
}

// Finished reports whether the item was watched to at least 95%.
func (r Record) Finished() bool {
	return r.Duration > 0 && r.Position*100 >= r.Duration*95
}

// Item rebuilds the media item the record was saved for.
func (r Record) Item() media.Item {
	return media.Item{Location: r.Location, Title: r.Title}
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[map[string]Record] {
		return gache.New[map[string]Record](&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

// All returns every saved record keyed by location.
func All() (map[string]Record, error) {
	mu.Lock()
	defer mu.Unlock()

	return load()
}

func load() (map[string]Record, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Record), nil
	}
	return cached, nil
}

// Get returns the record saved for item, if any.
func Get(item media.Item) (mo.Option[Record], error) {
	saved, err := All()
	if err != nil {
		return mo.None[Record](), err
	}

	record, ok := saved[item.Location]
	if !ok {
		return mo.None[Record](), nil
	}
	return mo.Some(record), nil
}

// Save stores the position reached in item.
func Save(item media.Item, position, duration time.Duration) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	saved[item.Location] = Record{
		Location:  item.Location,
		Title:     item.Title,
		Position:  position,
		Duration:  duration,
		UpdatedAt: time.Now(),
	}

	return cacher().Set(saved)
}

// Remove forgets item.
func Remove(item media.Item) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, item.Location)
	return cacher().Set(saved)
}

// Latest returns the most recently updated record that was not finished.
func Latest() (mo.Option[Record], error) {
	saved, err := All()
	if err != nil {
		return mo.None[Record](), err
	}

	unfinished := lo.Filter(lo.Values(saved), func(r Record, _ int) bool {
		return !r.Finished()
	})
	if len(unfinished) == 0 {
		return mo.None[Record](), nil
	}

	return mo.Some(lo.MaxBy(unfinished, func(a, b Record) bool {
		return a.UpdatedAt.After(b.UpdatedAt)
	})), nil
}
