package queue_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	queue "github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) queue.Job {
	return queue.Job{
		Document:   model.Document{ID: id, Filename: id + ".pdf", Language: "EN"},
		Sector:     "rural roads",
		Evidence:   model.NewEvidenceBundle(),
		EnqueuedAt: time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(3))
		ctx := context.Background()
		Reset(func() { _ = q.Close() })

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, job("doc-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("doc-2")), ShouldBeTrue)

			Convey("Then the length should track the backlog", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, job("doc-"+strconv.Itoa(i))), ShouldBeTrue)
			}

			Convey("Then further enqueues should be rejected, not blocked", func() {
				So(q.Enqueue(ctx, job("overflow")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 3)
			})
		})

		Convey("When dequeueing", func() {
			So(q.Enqueue(ctx, job("doc-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("doc-2")), ShouldBeTrue)
			jobs := q.Dequeue(ctx)

			Convey("Then jobs should arrive in FIFO order", func() {
				first := <-jobs
				second := <-jobs
				So(first.Document.ID, ShouldEqual, "doc-1")
				So(second.Document.ID, ShouldEqual, "doc-2")
			})
		})
	})

	Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(3))
		ctx := context.Background()
		So(q.Enqueue(ctx, job("doc-1")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then it should report closed", func() {
			So(q.IsClosed(), ShouldBeTrue)
		})

		Convey("Then enqueues should be rejected", func() {
			So(q.Enqueue(ctx, job("doc-2")), ShouldBeFalse)
		})

		Convey("Then buffered jobs should drain before the channel closes", func() {
			jobs := q.Dequeue(ctx)

			drained, open := <-jobs
			So(open, ShouldBeTrue)
			So(drained.Document.ID, ShouldEqual, "doc-1")

			_, open = <-jobs
			So(open, ShouldBeFalse)
		})

		Convey("Then closing again should be harmless", func() {
			So(q.Close(), ShouldBeNil)
		})
	})

	Convey("Given a dequeue bound to a cancelled context", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(3))
		ctx, cancel := context.WithCancel(context.Background())
		Reset(func() { _ = q.Close() })

		jobs := q.Dequeue(ctx)
		cancel()
		So(q.Enqueue(context.Background(), job("doc-1")), ShouldBeTrue)
		// Let the pump observe the cancellation before we receive, so the
		// delivery branch is never ready.
		time.Sleep(50 * time.Millisecond)

		Convey("Then the consumer channel should close without delivering", func() {
			select {
			case _, open := <-jobs:
				So(open, ShouldBeFalse)
			case <-time.After(time.Second):
				So("timed out waiting for channel close", ShouldBeEmpty)
			}
		})
	})
}
