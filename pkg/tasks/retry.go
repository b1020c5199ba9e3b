package tasks

import (
	"context"

	"github.com/cenkalti/backoff/v5"

	"github.com/kubev2v/taskflow/pkg/cancellation"
	enginerrs "github.com/kubev2v/taskflow/pkg/errors"
)

// RetryWork wraps fn so that failures are retried with exponential
// backoff, up to maxTries attempts. The result is a plain Work suitable
// for New or ContinueWith; the task settles with the last attempt's
// error once the attempts are exhausted.
func RetryWork(fn Work, maxTries uint) Work {
	return func() error {
		_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
			return struct{}{}, fn()
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(maxTries),
		)
		return err
	}
}

// RetryCancelableWork is RetryWork for a token-polling work unit. A
// cancel observed between attempts stops retrying and fails the task
// with the canceled error. That error is returned by the work unit, so
// the pool records it in its error list like any other work-unit error.
func RetryCancelableWork(fn CancelableWork, ct cancellation.Token, maxTries uint) Work {
	return func() error {
		_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
			if ct.IsCanceled() {
				return struct{}{}, backoff.Permanent(enginerrs.NewCanceledError())
			}
			return struct{}{}, fn(ct)
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(maxTries),
		)
		return err
	}
}
