package cmd

import (
	"time"

	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/history"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
)

const saveInterval = 5 * time.Second

type advancer interface {
	Next() error
}

// tracker follows the engine stream, saving resume positions and moving
// to the next queued item when one ends.
type tracker struct {
	queue   advancer
	save    func(item media.Item, position, duration time.Duration) error
	now     func() time.Time
	saving  bool
	advance bool

	item    media.Item
	elapsed time.Duration
	total   time.Duration
	savedAt time.Time
}

func newTracker(q advancer) *tracker {
	return &tracker{
		queue:   q,
		save:    history.Save,
		now:     time.Now,
		saving:  viper.GetBool(key.HistorySaveOnPlay),
		advance: viper.GetBool(key.QueueAutoAdvance),
	}
}

func (t *tracker) handle(ev engine.Event) {
	if !ev.Item().Equal(t.item) {
		t.item = ev.Item()
		t.elapsed, t.total = 0, 0
		t.savedAt = time.Time{}
	}

	switch ev := ev.(type) {
	case engine.DurationEvent:
		t.total = ev.Total
	case engine.TimeEvent:
		t.elapsed = ev.Elapsed
		if t.now().Sub(t.savedAt) >= saveInterval {
			t.persist(t.elapsed)
		}
	case engine.StateEvent:
		if ev.State == engine.Paused || ev.State == engine.Stopped {
			t.persist(t.elapsed)
		}
	case engine.EndedEvent:
		t.persist(t.total)
		if t.advance {
			if err := t.queue.Next(); err != nil {
				log.Error(err)
			}
		}
	}
}

func (t *tracker) persist(position time.Duration) {
	if !t.saving || t.total <= 0 || t.item.IsZero() {
		return
	}

	t.savedAt = t.now()
	if err := t.save(t.item, position, t.total); err != nil {
		log.Warnf("save position of %s: %v", t.item, err)
	}
}
