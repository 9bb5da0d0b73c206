package qsearch

import (
	"bytes"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given the package logger", t, func() {
		var buf bytes.Buffer
		Logger().SetOutput(&buf)

		Reset(func() {
			Logger().SetOutput(os.Stderr)
			So(SetLogLevel("info"), ShouldBeNil)
		})

		Convey("Precision warnings are logged with their stage", func() {
			warn(NumericalPrecisionWarning{Stage: "distribution", Deviation: 0.01, Tolerance: 1e-6})
			So(buf.String(), ShouldContainSubstring, "distribution")
		})

		Convey("Raising the level silences them", func() {
			So(SetLogLevel("error"), ShouldBeNil)
			warn(NumericalPrecisionWarning{Stage: "amplitudes"})
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLogLevel("chatty"), ShouldNotBeNil)
		})
	})
}
