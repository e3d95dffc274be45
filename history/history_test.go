package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/media"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an item", t, func() {
		item := media.Item{Location: "/videos/holiday.mp4", Title: "holiday"}

		Convey("When its position is saved", func() {
			So(Save(item, 42*time.Second, 10*time.Minute), ShouldBeNil)

			Convey("Then it can be read back", func() {
				record, err := Get(item)
				So(err, ShouldBeNil)
				So(record.IsPresent(), ShouldBeTrue)
				So(record.MustGet().Position, ShouldEqual, 42*time.Second)
				So(record.MustGet().Finished(), ShouldBeFalse)
				So(record.MustGet().Item().Equal(item), ShouldBeTrue)

				all, err := All()
				So(err, ShouldBeNil)
				So(all, ShouldContainKey, item.Location)
			})

			Convey("Then saving again overwrites it", func() {
				So(Save(item, 9*time.Minute+50*time.Second, 10*time.Minute), ShouldBeNil)
				record, _ := Get(item)
				So(record.MustGet().Finished(), ShouldBeTrue)
			})

			Convey("Then it is the latest unfinished record", func() {
				other := media.New("/videos/other.mp4")
				So(Save(other, 10*time.Minute, 10*time.Minute), ShouldBeNil)

				latest, err := Latest()
				So(err, ShouldBeNil)
				So(latest.MustGet().Location, ShouldEqual, item.Location)

				So(Remove(other), ShouldBeNil)
			})

			Convey("Then it can be removed", func() {
				So(Remove(item), ShouldBeNil)
				record, err := Get(item)
				So(err, ShouldBeNil)
				So(record.IsAbsent(), ShouldBeTrue)
			})
		})
	})
}
