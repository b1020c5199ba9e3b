package tasks_test

import (
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/taskflow/pkg/cancellation"
	enginerrs "github.com/kubev2v/taskflow/pkg/errors"
	"github.com/kubev2v/taskflow/pkg/pool"
	"github.com/kubev2v/taskflow/pkg/tasks"
)

var _ = Describe("Retry", func() {
	var p *pool.Pool

	AfterEach(func() {
		if p != nil {
			p.Close()
		}
	})

	Describe("RetryWork", func() {
		It("should succeed after transient failures", func() {
			p = pool.New(1)
			p.Start()

			var attempts atomic.Int32
			t := tasks.New(p, tasks.RetryWork(func() error {
				if attempts.Add(1) < 3 {
					return errors.New("transient")
				}
				return nil
			}, 5), cancellation.None())

			Expect(t.Future().WaitFor(30 * time.Second)).To(BeTrue())
			Expect(t.Future().Outcome()).To(Succeed())
			Expect(attempts.Load()).To(Equal(int32(3)))
		})

		It("should fail the task once the attempts are exhausted", func() {
			p = pool.New(1)
			p.Start()

			var attempts atomic.Int32
			t := tasks.New(p, tasks.RetryWork(func() error {
				attempts.Add(1)
				return errBoom
			}, 2), cancellation.None())

			Expect(t.Future().WaitFor(30 * time.Second)).To(BeTrue())
			Expect(t.Future().Outcome()).To(MatchError(errBoom))
			Expect(attempts.Load()).To(Equal(int32(2)))
		})
	})

	Describe("RetryCancelableWork", func() {
		It("should stop retrying once the token cancels", func() {
			p = pool.New(1)
			p.Start()

			cs := cancellation.NewSource()

			var attempts atomic.Int32
			t := tasks.New(p, tasks.RetryCancelableWork(func(ct cancellation.Token) error {
				attempts.Add(1)
				cs.Cancel()
				return errors.New("transient")
			}, cs.Token(), 10), cs.Token())

			Expect(t.Future().WaitFor(30 * time.Second)).To(BeTrue())
			Expect(t.Future().Outcome()).To(MatchError(enginerrs.ErrCanceled))
			Expect(attempts.Load()).To(Equal(int32(1)))
		})
	})
})
