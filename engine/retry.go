package engine

import (
	"fmt"
	"time"

	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/player"
)

// RetryDelay returns the wait before reload attempt n, counting from zero:
// 1s, 2s, 4s and so on.
func RetryDelay(attempt int) time.Duration {
	return time.Second << attempt
}

// failLocked handles a playback failure of generation gen. Lost
// connections are retried with backoff, anything else stops the item.
func (e *Engine) failLocked(gen uint64, err error) {
	if !player.IsNetworkLost(err) {
		e.reportLocked(err)
		e.stopTickerLocked()
		e.setStateLocked(Stopped)
		return
	}

	if e.retries >= e.opts.maxRetries {
		e.reportLocked(fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, e.retries, err))
		e.stopTickerLocked()
		e.setStateLocked(Stopped)
		return
	}

	delay := RetryDelay(e.retries)
	e.retries++
	e.logger().WithField("attempt", e.retries).Warnf("connection lost, reloading in %s", delay)
	e.setStateLocked(WaitingForConnection)

	item := e.item.MustGet()
	e.retryTimer = e.opts.afterFunc(delay, func() { e.retry(gen, item) })
}

// retry reloads item unless a newer generation took over meanwhile.
func (e *Engine) retry(gen uint64, item media.Item) {
	e.mu.Lock()
	if gen != e.gen || e.state != WaitingForConnection {
		e.mu.Unlock()
		return
	}
	e.retryTimer = nil

	unit, err := player.NewUnit(item)
	if err != nil {
		e.reportLocked(err)
		e.setStateLocked(Stopped)
		e.mu.Unlock()
		return
	}
	e.unit = unit
	paused := e.holdPaused
	e.setStateLocked(Buffering)
	e.mu.Unlock()

	_ = e.start(gen, unit, paused)
}
