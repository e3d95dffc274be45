// Package thumbnail samples preview frames across a media item for seek previews.
package thumbnail

import (
	"time"

	"github.com/vidsel-cli/vidsel/constant"
)

// Timestamps returns evenly spaced sample times over duration: at most max
// of them and never closer than constant.ThumbnailResolution.
func Timestamps(duration time.Duration, max int) []time.Duration {
	if duration <= 0 || max <= 0 {
		return nil
	}

	n := int(duration / constant.ThumbnailResolution)
	if n > max {
		n = max
	}
	if n == 0 {
		return nil
	}

	times := make([]time.Duration, n)
	for i := range times {
		times[i] = time.Duration(int64(i) * int64(duration) / int64(n))
	}
	return times
}
