package constant

import "time"

// Playback defaults shared by the engine, the view layer and the config registry.
const (
	// MaxThumbnails caps the number of frames sampled for one item.
	MaxThumbnails = 100

	// ThumbnailResolution is the smallest spacing between two sampled frames.
	ThumbnailResolution = 10 * time.Millisecond

	// ThumbnailWidth is the pixel width frames are scaled down to.
	ThumbnailWidth = 160

	// ThumbnailWorkers bounds concurrent frame renders.
	ThumbnailWorkers = 4

	// SeekStep is the default relative seek offset.
	SeekStep = 15 * time.Second

	// TimeInterval is the elapsed-time polling period.
	TimeInterval = 500 * time.Millisecond

	// MaxRetryAttempts bounds network-loss retries per item.
	MaxRetryAttempts = 3
)

// ImportedBaseName is the stem of the fixed path picked media is copied to.
const ImportedBaseName = "selected-video"
