package engine

import (
	"time"

	"github.com/vidsel-cli/vidsel/constant"
)

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type options struct {
	timeInterval     time.Duration
	seekStep         time.Duration
	maxRetries       int
	maxThumbnails    int
	thumbnailWorkers int
	afterFunc        AfterFunc
}

func defaultOptions() options {
	return options{
		timeInterval:     constant.TimeInterval,
		seekStep:         constant.SeekStep,
		maxRetries:       constant.MaxRetryAttempts,
		maxThumbnails:    constant.MaxThumbnails,
		thumbnailWorkers: constant.ThumbnailWorkers,
		afterFunc:        realAfterFunc,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithTimeInterval sets how often elapsed time is polled.
func WithTimeInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeInterval = d
		}
	}
}

// WithSeekStep sets the offset of SeekForward and SeekBackward.
func WithSeekStep(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.seekStep = d
		}
	}
}

// WithMaxRetries bounds reload attempts after a lost connection.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

func WithMaxThumbnails(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxThumbnails = n
		}
	}
}

func WithThumbnailWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.thumbnailWorkers = n
		}
	}
}

// WithAfterFunc replaces the retry scheduler.
func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) {
		if f != nil {
			o.afterFunc = f
		}
	}
}
