package config

import (
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Every registered field has a value", func() {
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Durations keep their type", func() {
			So(viper.GetDuration(key.PlayerSeekStep), ShouldEqual, constant.SeekStep)
		})

		Convey("Environment variables override defaults", func() {
			So(os.Setenv("VIDSEL_THUMBNAILS_MAX", "12"), ShouldBeNil)
			defer os.Unsetenv("VIDSEL_THUMBNAILS_MAX")
			So(viper.GetInt(key.ThumbnailsMax), ShouldEqual, 12)
		})

		Convey("EnvKeyReplacer converts dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.seek_step"), ShouldEqual, "player_seek_step")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given registered fields", t, func() {
		Convey("Env adds the application prefix once", func() {
			f := Default[key.PlayerSeekStep]
			So(f.Env(), ShouldEqual, "VIDSEL_PLAYER_SEEK_STEP")
		})

		Convey("Parse follows the default's type", func() {
			step := Default[key.PlayerSeekStep]
			v, err := step.Parse([]string{"30s"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 30*time.Second)

			bound := Default[key.QueueLegacyIndexBound]
			v, err = bound.Parse([]string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)

			workers := Default[key.ThumbnailsWorkers]
			_, err = workers.Parse([]string{"many"})
			So(err, ShouldNotBeNil)
			So(workers.TypeName(), ShouldEqual, "int")
		})
	})
}
