package util

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidsel-cli/vidsel/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "frame", "frames"), ShouldEqual, "1 frame")
		So(Quantify(12, "frame", "frames"), ShouldEqual, "12 frames")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/clip.mp4"), ShouldEqual, "clip")
		So(FileStem("clip"), ShouldEqual, "clip")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(5, 0, 3), ShouldEqual, 3)
		So(Clamp(-1, 0, 3), ShouldEqual, 0)
		So(Clamp(0.5, 0.0, 1.0), ShouldEqual, 0.5)
		So(Clamp(20*time.Second, 0, 10*time.Second), ShouldEqual, 10*time.Second)
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(-time.Second), ShouldEqual, "0:00")
		So(FormatDuration(75*time.Second), ShouldEqual, "1:15")
		So(FormatDuration(time.Hour+2*time.Minute+3*time.Second), ShouldEqual, "1:02:03")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/vidsel/dir", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/vidsel/dir/a.mp4", []byte("x"), 0o644), ShouldBeNil)

		Convey("Delete removes it recursively", func() {
			So(Delete("/tmp/vidsel/dir"), ShouldBeNil)
			exists, err := fs.Exists("/tmp/vidsel/dir")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Delete fails on a missing path", func() {
			So(Delete("/tmp/vidsel/missing"), ShouldNotBeNil)
		})
	})
}
