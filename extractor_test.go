package qsearch

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractResults(t *testing.T) {
	Convey("Given a distribution", t, func() {
		dist := &Distribution{
			Width: 2,
			Probabilities: map[string]float64{
				"00": 0.3,
				"01": 0.28,
				"10": 0.03,
				"11": 0.39,
			},
		}

		Convey("States near the reference probability are returned in order", func() {
			So(ExtractResults(dist, "01", 0.05), ShouldResemble, []int{0, 1})
		})

		Convey("Without a reference the most probable state is used", func() {
			So(ExtractResults(dist, "", 0.05), ShouldResemble, []int{3})
		})

		Convey("A wider tolerance takes in more states", func() {
			So(ExtractResults(dist, "01", 0.1), ShouldResemble, []int{0, 1, 3})
		})

		Convey("The band edges are inclusive", func() {
			dist.Probabilities["10"] = 0.35
			So(ExtractResults(dist, "00", 0.05), ShouldResemble, []int{0, 1, 2})
		})

		Convey("A reference that was never observed centres the band on zero", func() {
			delete(dist.Probabilities, "01")
			So(ExtractResults(dist, "01", 0.05), ShouldResemble, []int{2})
		})
	})

	Convey("Given an empty distribution", t, func() {
		So(ExtractResults(nil, "", 0.05), ShouldResemble, []int{})
		So(ExtractResults(&Distribution{Width: 3}, "", 0.05), ShouldResemble, []int{})
	})
}

func TestRoundTenth(t *testing.T) {
	Convey("Probabilities round half up to one decimal", t, func() {
		So(roundTenth(0.28125), ShouldAlmostEqual, 0.3, 1e-12)
		So(roundTenth(0.0185), ShouldAlmostEqual, 0, 1e-12)
		So(roundTenth(0.142857), ShouldAlmostEqual, 0.1, 1e-12)
		So(roundTenth(0.25), ShouldAlmostEqual, 0.3, 1e-12)
	})
}
