package thumbnail

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/log"
)

// Options tune a Generate run.
type Options struct {
	// Max bounds the number of sampled frames.
	Max int
	// Workers bounds concurrent renders.
	Workers int
	// Duration skips probing when already known.
	Duration time.Duration
	// OnGrow is called with the new length each time frames become visible.
	OnGrow func(n int)
}

type result struct {
	index int
	at    time.Duration
	img   image.Image
	err   error
}

// Generate renders a strip for location into strip. Individual frame
// failures are logged and skipped. It returns when every frame has been
// attempted or ctx is done.
func Generate(ctx context.Context, r Renderer, location string, strip *Strip, opts Options) error {
	if opts.Max <= 0 {
		opts.Max = constant.MaxThumbnails
	}
	if opts.Workers <= 0 {
		opts.Workers = constant.ThumbnailWorkers
	}

	logger := log.WithFields(logrus.Fields{"location": location})

	duration := opts.Duration
	if duration <= 0 {
		d, err := r.Probe(ctx, location)
		if err != nil {
			return fmt.Errorf("probe: %w", err)
		}
		duration = d
	}

	times := Timestamps(duration, opts.Max)
	if len(times) == 0 {
		return nil
	}

	jobs := make(chan int)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				img, err := r.Render(ctx, location, times[i])
				select {
				case results <- result{index: i, at: times[i], img: img, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range times {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	failed := 0
	for res := range results {
		var added int
		if res.err != nil {
			failed++
			logger.WithField("at", res.at).Warnf("render frame: %v", res.err)
			added = strip.Skip(res.index)
		} else {
			added = strip.Put(Frame{Index: res.index, At: res.at, Image: res.img})
		}

		if added > 0 && opts.OnGrow != nil && ctx.Err() == nil {
			opts.OnGrow(strip.Len())
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debugf("rendered %d of %d frames", len(times)-failed, len(times))
	return nil
}
