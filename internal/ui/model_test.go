package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notification model", t, func() {
		var m Model

		Convey("It shows the last notification", func() {
			So(m.Update(NotificationMsg("picture in picture on")), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "picture in picture on")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
		})

		Convey("A stale clear does not hide a newer notification", func() {
			m.Update(NotificationMsg("first"))
			stale := ClearNotificationMsg{at: m.notifiedAt.Add(-1)}
			m.Update(NotificationMsg("second"))

			m.Update(stale)
			So(m.Current(), ShouldEqual, "second")

			m.Update(ClearNotificationMsg{at: m.notifiedAt})
			So(m.Current(), ShouldBeEmpty)
			So(m.View("a"), ShouldEqual, "a")
		})

		Convey("Other messages are ignored", func() {
			So(m.Update(42), ShouldBeNil)
		})
	})
}
