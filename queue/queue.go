// Package queue keeps the ordered items of one feed and the selected position within it.
package queue

import (
	"sync"

	"github.com/samber/mo"
	"github.com/vidsel-cli/vidsel/media"
)

// Option configures a Queue.
type Option func(*Queue)

// WithLegacyIndexBound rejects the last index in UpdateCurrentIndex,
// reproducing the behaviour of older clients.
func WithLegacyIndexBound() Option {
	return func(q *Queue) {
		q.legacyBound = true
	}
}

// Queue is safe for concurrent use.
type Queue struct {
	mu          sync.RWMutex
	feedID      string
	items       []media.Item
	index       mo.Option[int]
	legacyBound bool
}

func New(opts ...Option) *Queue {
	q := &Queue{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Set replaces the contents when feedID differs from the stored one and
// reports whether it did. An invalid startIndex leaves the index unset.
func (q *Queue) Set(feedID string, items []media.Item, startIndex int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.feedID == feedID && feedID != "" {
		return false
	}

	q.feedID = feedID
	q.items = append([]media.Item(nil), items...)
	q.index = mo.None[int]()
	if startIndex >= 0 && startIndex < len(q.items) {
		q.index = mo.Some(startIndex)
	}

	return true
}

// Current returns the selected item, if any.
func (q *Queue) Current() mo.Option[media.Item] {
	q.mu.RLock()
	defer q.mu.RUnlock()

	i, ok := q.index.Get()
	if !ok || i >= len(q.items) {
		return mo.None[media.Item]()
	}
	return mo.Some(q.items[i])
}

// UpdateCurrentIndex selects index when it is within bounds and reports
// whether the selection changed. Out-of-range values leave it untouched.
func (q *Queue) UpdateCurrentIndex(index int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.setIndex(index)
}

func (q *Queue) setIndex(index int) bool {
	limit := len(q.items)
	if q.legacyBound {
		limit--
	}

	if index < 0 || index >= limit {
		return false
	}

	q.index = mo.Some(index)
	return true
}

// Next selects the following item.
func (q *Queue) Next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, ok := q.index.Get()
	if !ok {
		return q.setIndex(0)
	}
	return q.setIndex(i + 1)
}

// Previous selects the preceding item.
func (q *Queue) Previous() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, ok := q.index.Get()
	if !ok {
		return false
	}
	return q.setIndex(i - 1)
}

// Cleanup forgets the feed, the items and the selection.
func (q *Queue) Cleanup() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.feedID = ""
	q.items = nil
	q.index = mo.None[int]()
}

// Items returns a copy of the queued items.
func (q *Queue) Items() []media.Item {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return append([]media.Item(nil), q.items...)
}

func (q *Queue) FeedID() string {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.feedID
}

func (q *Queue) Index() mo.Option[int] {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.index
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.items)
}
