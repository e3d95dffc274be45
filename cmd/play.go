package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/history"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/player"
	"github.com/vidsel-cli/vidsel/queue"
	"github.com/vidsel-cli/vidsel/remote"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/thumbnail"
	"github.com/vidsel-cli/vidsel/tui"
)

var errNothingToPlay = errors.New("nothing to play")

var videoExtensions = []string{
	".3gp", ".avi", ".flv", ".m2ts", ".m4v", ".mkv", ".mov",
	".mp4", ".mpeg", ".mpg", ".ogv", ".ts", ".webm", ".wmv",
}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("continue", "c", false, "Resume where playback was left off")
	cmd.Flags().IntP("start", "s", 0, "Queue index to start from")
	cmd.Flags().StringP("filter", "f", "", "Only queue videos from directories whose names fuzzy-match this")
	cmd.Flags().Bool("mpris", false, "Expose playback controls over MPRIS2 (D-Bus)")
}

var playCmd = &cobra.Command{
	Use:   "play [files, directories or URLs...]",
	Short: "Queue and play videos",
	Long: `Queue the given files, every video inside the given directories and any URLs, then play them in order.
Without arguments, --continue resumes the most recently watched video.`,
	Example: "  vidsel play ~/Videos/holiday\n  vidsel play -c\n  vidsel play --start 2 a.mkv b.mkv c.mkv",
	Run: func(cmd *cobra.Command, args []string) {
		runPlay(cmd, args)
	},
}

func runPlay(cmd *cobra.Command, args []string) {
	var (
		resume = lo.Must(cmd.Flags().GetBool("continue"))
		start  = lo.Must(cmd.Flags().GetInt("start"))
		filter = lo.Must(cmd.Flags().GetString("filter"))
	)

	if cmd.Flags().Changed("mpris") {
		viper.Set(key.RemoteMPRIS, lo.Must(cmd.Flags().GetBool("mpris")))
	}

	var (
		items []media.Item
		err   error
	)

	if len(args) == 0 && resume {
		record, err := history.Latest()
		handleErr(err)
		if record.IsAbsent() {
			handleErr(errors.New("there is nothing to continue"))
		}
		items = []media.Item{record.MustGet().Item()}
	} else {
		items, err = collect(args, filter)
		handleErr(err)
	}

	handleErr(play(items, strings.Join(args, "\x00"), start, resume))
}

// collect expands directories into the videos they contain, sorted by name
// and narrowed by filter. Anything else is queued as given.
func collect(args []string, filter string) ([]media.Item, error) {
	fs := filesystem.API()
	var items []media.Item

	for _, arg := range args {
		if isDir, _ := fs.IsDir(arg); !isDir {
			items = append(items, media.New(arg))
			continue
		}

		entries, err := fs.ReadDir(arg)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() || !isVideo(entry.Name()) {
				continue
			}
			if filter == "" || fuzzy.MatchNormalizedFold(filter, entry.Name()) {
				items = append(items, media.New(filepath.Join(arg, entry.Name())))
			}
		}
	}

	if len(items) == 0 {
		return nil, errNothingToPlay
	}
	return items, nil
}

func isVideo(name string) bool {
	return lo.Contains(videoExtensions, strings.ToLower(filepath.Ext(name)))
}

func play(items []media.Item, feedID string, start int, resume bool) error {
	if len(items) == 0 {
		return errNothingToPlay
	}

	CheckDependencies()

	q := newQueue()
	q.Set(feedID, items, start)
	current, ok := q.Current().Get()
	if !ok {
		return fmt.Errorf("start index %d is out of range, the queue has %d items", start, len(items))
	}

	resumeAt := mo.None[time.Duration]()
	if resume {
		record, err := history.Get(current)
		if err != nil {
			log.Warn(err)
		} else if r, ok := record.Get(); ok && !r.Finished() {
			resumeAt = mo.Some(r.Position)
		}
	}

	e := newEngine(newPlayer())
	defer func() {
		if err := e.Close(); err != nil {
			log.Warn(err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controls := remote.NewControls(e, q)
	e.Subscribe(ctx, newTracker(controls).handle)

	if viper.GetBool(key.RemoteMPRIS) {
		mpris, err := remote.RegisterMprisPlayer(controls, cancel)
		if err != nil {
			log.Warn(err)
			fmt.Printf("%s %s\n", icon.Get(icon.Cross), style.Faint("MPRIS is unavailable: "+err.Error()))
		} else {
			defer mpris.Close()
			e.Subscribe(ctx, mpris.OnEvent)
		}
	}

	return tui.Run(ctx, &tui.Options{
		Engine:   e,
		Queue:    q,
		Nav:      controls,
		SeekStep: e.SeekStep(),
		ResumeAt: resumeAt,
	})
}

func newQueue() *queue.Queue {
	var opts []queue.Option
	if viper.GetBool(key.QueueLegacyIndexBound) {
		opts = append(opts, queue.WithLegacyIndexBound())
	}
	return queue.New(opts...)
}

func newPlayer() *player.MPV {
	return player.NewMPV(
		player.WithPath(viper.GetString(key.PlayerMPVPath)),
		player.WithSocket(viper.GetString(key.PlayerMPVSocket)),
	)
}

func newEngine(p player.Player) *engine.Engine {
	var renderer thumbnail.Renderer
	if viper.GetBool(key.ThumbnailsEnable) {
		renderer = thumbnail.NewFFmpeg(
			viper.GetString(key.ThumbnailsFFmpeg),
			viper.GetString(key.ThumbnailsFFprobe),
			viper.GetInt(key.ThumbnailsWidth),
		)
	}

	return engine.New(p, renderer,
		engine.WithTimeInterval(viper.GetDuration(key.PlayerTimeInterval)),
		engine.WithSeekStep(viper.GetDuration(key.PlayerSeekStep)),
		engine.WithMaxRetries(viper.GetInt(key.PlayerRetryMax)),
		engine.WithMaxThumbnails(viper.GetInt(key.ThumbnailsMax)),
		engine.WithThumbnailWorkers(viper.GetInt(key.ThumbnailsWorkers)),
	)
}
