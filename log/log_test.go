package log

import (
	"testing"

	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Field-scoped entries are discarded", func() {
			entry := WithFields(logrus.Fields{"item": "a"})
			So(entry.Logger, ShouldEqual, discard)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)

		Convey("The level is applied and a log file exists", func() {
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)
			files, err := filesystem.API().ReadDir(where.Logs())
			So(err, ShouldBeNil)
			So(len(files), ShouldBeGreaterThan, 0)
		})
	})
}
