package qsearch

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWorker(t *testing.T) {
	Convey("Given a worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		pool := &Pool{
			ctx:    ctx,
			cancel: cancel,
			jobs:   make(chan Job, 1),
			space:  newSpace(),
		}

		worker := &Worker{id: 1, pool: pool}
		done := make(chan error, 1)

		Reset(func() {
			cancel()
		})

		Convey("It should process a job successfully", func() {
			pool.jobs <- Job{
				ID: "job_success",
				Fn: func() (any, error) { return "result", nil },
			}

			go func() { done <- worker.run() }()

			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case value := <-pool.space.Await("job_success"):
				So(value.Error, ShouldBeNil)
				So(value.Value, ShouldEqual, "result")
			}
		})

		Convey("It should turn a panic into an error", func() {
			result, err := worker.process(Job{
				ID: "job_panic",
				Fn: func() (any, error) { panic("unstable batch") },
			})

			So(result, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unstable batch")
		})

		Convey("It should wrap job errors", func() {
			cause := errors.New("bad batch")
			_, err := worker.process(Job{
				ID: "job_error",
				Fn: func() (any, error) { return nil, cause },
			})

			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("It should stop when the pool context ends", func() {
			go func() { done <- worker.run() }()
			cancel()

			select {
			case <-time.After(2 * time.Second):
				t.Fatal("worker did not stop")
			case err := <-done:
				So(err, ShouldBeNil)
			}
		})
	})
}
