package cmd

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/vidsel-cli/vidsel/config"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/where"
)

func TestErrUnknownKey(t *testing.T) {
	Convey("Unknown config keys suggest the closest one", t, func() {
		err := errUnknownKey("player.seek_stp")
		So(err.Error(), ShouldContainSubstring, "player.seek_step")
	})
}

func TestSelectFields(t *testing.T) {
	Convey("Given the registered settings", t, func() {
		Convey("Named keys are returned sorted", func() {
			fields, err := selectFields([]string{key.ThumbnailsMax, key.PlayerSeekStep}, "")
			So(err, ShouldBeNil)
			So(lo.Map(fields, func(f config.Field, _ int) string { return f.Key }), ShouldResemble,
				[]string{key.PlayerSeekStep, key.ThumbnailsMax})
		})

		Convey("A section selects every key under it", func() {
			fields, err := selectFields(nil, "thumbnails")
			So(err, ShouldBeNil)
			So(fields, ShouldNotBeEmpty)
			for _, f := range fields {
				So(f.Key, ShouldStartWith, "thumbnails.")
			}
		})

		Convey("No section selects everything", func() {
			fields, err := selectFields(nil, "")
			So(err, ShouldBeNil)
			So(fields, ShouldHaveLength, len(config.Default))
		})

		Convey("Unknown keys and sections are errors", func() {
			_, err := selectFields([]string{"queue.auto_advanse"}, "")
			So(err.Error(), ShouldContainSubstring, key.QueueAutoAdvance)

			_, err = selectFields(nil, "subtitles")
			So(err.Error(), ShouldContainSubstring, "player")
		})

		Convey("Sections are listed once", func() {
			So(sections(), ShouldContain, "player")
			So(sections(), ShouldContain, "queue")
			So(lo.Uniq(sections()), ShouldResemble, sections())
		})
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Every setting has a prefixed variable", t, func() {
		names := lo.Map(envVars(), func(v envVar, _ int) string { return v.name })
		So(names, ShouldHaveLength, len(config.Default)+1)
		So(names, ShouldContain, "VIDSEL_PLAYER_SEEK_STEP")
		So(names, ShouldContain, where.EnvConfigPath)

		Convey("And listing twice gives the same result", func() {
			So(lo.Map(envVars(), func(v envVar, _ int) string { return v.name }), ShouldResemble, names)
		})
	})
}

func TestCurrentBuild(t *testing.T) {
	Convey("Build information names the version and platform", t, func() {
		info := currentBuild()
		So(info.Version, ShouldEqual, constant.Version)
		So(info.Platform, ShouldContainSubstring, "/")
	})
}

func TestUsage(t *testing.T) {
	Convey("Given a directory with two files", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/usage/sub", 0o755), ShouldBeNil)
		So(afero.WriteFile(fs, "/usage/a.mp4", make([]byte, 1000), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/usage/sub/b.mp4", make([]byte, 500), 0o644), ShouldBeNil)

		Convey("Files are counted recursively", func() {
			files, size := usage("/usage")
			So(files, ShouldEqual, 2)
			So(size, ShouldEqual, 1500)
			So(describeUsage("/usage"), ShouldEqual, "2 files, 1.5 kB")
		})

		Convey("A missing path is empty", func() {
			So(describeUsage("/nowhere"), ShouldEqual, "empty")
		})

		Convey("Removing reports the freed size", func() {
			freed, err := removeLocation("/usage")
			So(err, ShouldBeNil)
			So(freed, ShouldEqual, 1500)

			exists, _ := afero.Exists(fs, "/usage")
			So(exists, ShouldBeFalse)
		})
	})
}
