// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback engine tuning.
const (
	PlayerTimeInterval = "player.time_interval"
	PlayerSeekStep     = "player.seek_step"
	PlayerMPVPath      = "player.mpv_path"
	PlayerMPVSocket    = "player.mpv_socket"
	PlayerRetryMax     = "player.retry_max"
)

// Thumbnail strip generation.
const (
	ThumbnailsEnable  = "thumbnails.enable"
	ThumbnailsMax     = "thumbnails.max"
	ThumbnailsWidth   = "thumbnails.width"
	ThumbnailsWorkers = "thumbnails.workers"
	ThumbnailsFFmpeg  = "thumbnails.ffmpeg_path"
	ThumbnailsFFprobe = "thumbnails.ffprobe_path"
)

// Queue behaviour.
const (
	QueueLegacyIndexBound = "queue.legacy_index_bound"
	QueueAutoAdvance      = "queue.auto_advance"
)

// Resume history.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Remote control surfaces.
const (
	RemoteMPRIS = "remote.mpris"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Logging infrastructure.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI execution environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
