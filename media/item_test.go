package media

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestItem(t *testing.T) {
	Convey("Item", t, func() {
		Convey("Equality ignores the title", func() {
			a := Item{Location: "/videos/a.mp4", Title: "A"}
			b := Item{Location: "/videos/a.mp4", Title: "Other"}
			c := Item{Location: "/videos/c.mp4", Title: "A"}
			So(a.Equal(b), ShouldBeTrue)
			So(a.Equal(c), ShouldBeFalse)
		})

		Convey("New derives the title from the file stem", func() {
			So(New("/videos/holiday.mov").Title, ShouldEqual, "holiday")
			So(New("https://cdn.example.com/v/clip.m3u8?x=1").Title, ShouldEqual, "clip")
		})

		Convey("Resolve", func() {
			Convey("Blank locations have no source", func() {
				_, err := Item{Location: "  "}.Resolve()
				So(errors.Is(err, ErrNoSource), ShouldBeTrue)
			})

			Convey("Bare paths become file URLs", func() {
				u, err := Item{Location: "/videos/a.mp4"}.Resolve()
				So(err, ShouldBeNil)
				So(u.Scheme, ShouldEqual, "file")
				So(u.Path, ShouldEndWith, "/videos/a.mp4")
			})

			Convey("Remote URLs need a host", func() {
				u, err := Item{Location: "https://example.com/a.mp4"}.Resolve()
				So(err, ShouldBeNil)
				So(u.Host, ShouldEqual, "example.com")

				_, err = Item{Location: "https:///a.mp4"}.Resolve()
				So(errors.Is(err, ErrNoSource), ShouldBeTrue)
			})
		})
	})
}
