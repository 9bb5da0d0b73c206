package qsearch

import (
	"context"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func amplificationProblem(k int, values []int) (AmplificationProblem, Problem) {
	width, err := RegisterWidth(k, values)
	So(err, ShouldBeNil)

	problem, err := Encode(k, values, width)
	So(err, ShouldBeNil)

	prep, err := PrepareState(problem.Amplitudes)
	So(err, ShouldBeNil)

	oracle, err := BuildOracle(width, problem.Marked)
	So(err, ShouldBeNil)

	return AmplificationProblem{
		StatePreparation: prep,
		Oracle:           oracle,
		IsGoodState:      problem.IsGoodState,
		MarkedCount:      problem.MarkedCount(),
	}, problem
}

func TestIterationCount(t *testing.T) {
	Convey("Given a search space and a number of marked states", t, func() {
		Convey("It returns floor(pi/4 * sqrt(N/M)), at least one", func() {
			So(IterationCount(16, 1), ShouldEqual, 3)
			So(IterationCount(16, 5), ShouldEqual, 1)
			So(IterationCount(32, 4), ShouldEqual, 2)
			So(IterationCount(1024, 1), ShouldEqual, 25)
			So(IterationCount(4, 4), ShouldEqual, 1)
		})

		Convey("Nothing marked means no iterations", func() {
			So(IterationCount(16, 0), ShouldEqual, 0)
		})

		Convey("It never grows with the number of marked states", func() {
			for m := 1; m < 256; m++ {
				So(IterationCount(256, m+1), ShouldBeLessThanOrEqualTo, IterationCount(256, m))
			}
		})
	})
}

func TestGroverOperator(t *testing.T) {
	Convey("Given a state preparation and an oracle", t, func() {
		problem, encoded := amplificationProblem(2, []int{0, 1, 3})

		grover, err := GroverOperator(problem.StatePreparation, problem.Oracle)
		So(err, ShouldBeNil)

		Convey("It equals the reflection about psi applied after the oracle", func() {
			u, err := grover.Unitary()
			So(err, ShouldBeNil)

			psi := encoded.Amplitudes
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					want := 2 * psi[i] * psi[j]
					if i == j {
						want--
					}

					if encoded.IsMarked(j) {
						want = -want
					}

					got := u.At(i, j)
					So(real(got), ShouldAlmostEqual, want, 1e-9)
					So(imag(got), ShouldAlmostEqual, 0, 1e-9)
				}
			}
		})

		Convey("A width mismatch is rejected", func() {
			_, err := GroverOperator(problem.StatePreparation, NewCircuit("oracle", 3))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAmplify(t *testing.T) {
	ctx := context.Background()

	Convey("Given a problem the nominal power already solves", t, func() {
		problem, _ := amplificationProblem(7, []int{4, 9, 11, 14, 1, 13, 6, 15})

		result, err := Amplify(ctx, problem, ExactExecutor{}, AmplifyOptions{})
		So(err, ShouldBeNil)

		Convey("It runs the nominal power once and accepts the top state", func() {
			So(result.Iterations, ShouldEqual, 1)
			So(result.Powers, ShouldResemble, []int{1})
			So(result.OracleAccepted, ShouldBeTrue)
			So(problem.IsGoodState(result.TopMeasurement), ShouldBeTrue)
		})

		Convey("The marked states carry the amplified probability", func() {
			dist := result.Distribution
			So(dist.Probability("0100"), ShouldAlmostEqual, 0.28125, 1e-9)
			So(dist.Probability("1001"), ShouldAlmostEqual, 0.03125, 1e-9)
			So(dist.Total(), ShouldAlmostEqual, 1, 1e-9)
			So(result.Circuit.Name, ShouldEqual, "amplify_1")
		})
	})

	Convey("Given a problem where most values are marked", t, func() {
		problem, _ := amplificationProblem(14, []int{3, 7, 2, 5, 9, 14})

		result, err := Amplify(ctx, problem, ExactExecutor{}, AmplifyOptions{GrowthRate: 1.2})
		So(err, ShouldBeNil)

		Convey("The nominal power over-rotates and the schedule grows until a marked state wins", func() {
			So(result.Iterations, ShouldEqual, 1)
			So(result.Powers, ShouldResemble, []int{1, 2, 3})
			So(result.OracleAccepted, ShouldBeTrue)
		})

		Convey("The distribution is still the nominal one", func() {
			So(result.Distribution.Top(), ShouldEqual, "1110")
			So(result.Distribution.Probability("0011"), ShouldBeLessThan, 0.05)
		})
	})

	Convey("Given a predicate nothing satisfies", t, func() {
		problem, _ := amplificationProblem(4, []int{2, 6, 8})
		problem.IsGoodState = func(string) bool { return false }

		result, err := Amplify(ctx, problem, ExactExecutor{}, AmplifyOptions{})
		So(err, ShouldBeNil)

		Convey("The schedule stops at its cap", func() {
			So(result.OracleAccepted, ShouldBeFalse)
			So(result.Powers[0], ShouldEqual, 3)
			So(result.Powers[len(result.Powers)-1], ShouldBeLessThanOrEqualTo, 4)
		})
	})

	Convey("Given an incomplete problem", t, func() {
		_, err := Amplify(ctx, AmplificationProblem{}, ExactExecutor{}, AmplifyOptions{})
		So(err, ShouldNotBeNil)

		problem, _ := amplificationProblem(7, []int{4, 9})
		problem.MarkedCount = 0

		_, err = Amplify(ctx, problem, ExactExecutor{}, AmplifyOptions{})
		So(err, ShouldNotBeNil)
	})

	Convey("Given a cancelled context", t, func() {
		problem, _ := amplificationProblem(7, []int{4, 9})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Amplify(cancelled, problem, ExactExecutor{}, AmplifyOptions{})
		So(err, ShouldNotBeNil)
	})
}

func TestNextPower(t *testing.T) {
	Convey("Given a growth rate", t, func() {
		Convey("Powers grow by at least one", func() {
			So(nextPower(1, 1.2), ShouldEqual, 2)
			So(nextPower(5, 1.2), ShouldEqual, 6)
			So(nextPower(10, 1.2), ShouldEqual, 12)
			So(nextPower(10, 2), ShouldEqual, 20)
			So(nextPower(3, math.Sqrt2), ShouldEqual, 4)
		})
	})
}
