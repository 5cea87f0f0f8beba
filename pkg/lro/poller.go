package lro

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/wbuck/azvm-manager/pkg/logger"
)

// StatusFunc queries the provider for the status of an operation.
type StatusFunc func(ctx context.Context, operationID string) (Status, error)

// StatusCodeFunc queries an operation result endpoint and returns the HTTP
// status code of the response.
type StatusCodeFunc func(ctx context.Context, operationID string) (int, error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Option func(*options)

type options struct {
	backoff backoff.BackOff
	timeout time.Duration
	log     *logger.Logger
	sleep   SleepFunc
}

// WithBackoff replaces the fixed handle interval for every poll after the
// first with the delays produced by b. backoff.Stop ends polling with
// ErrTimeout.
func WithBackoff(b backoff.BackOff) Option {
	return func(o *options) {
		o.backoff = b
	}
}

// WithTimeout bounds the whole poll loop.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func WithSleep(fn SleepFunc) Option {
	return func(o *options) {
		o.sleep = fn
	}
}

// ExponentialBackoff returns a capped exponential policy starting at initial.
// Overall deadlines are expressed with WithTimeout, not MaxElapsedTime.
func ExponentialBackoff(initial, maxInterval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// PollUntilTerminal waits RetryAfter, queries the operation and repeats until
// the provider reports a terminal status. Transport errors stop polling
// immediately and are returned as *TransportError.
func PollUntilTerminal(ctx context.Context, h Handle, query StatusFunc, opts ...Option) (Status, error) {
	var status Status
	err := poll(ctx, h, newOptions(opts), func(ctx context.Context) (bool, error) {
		s, err := query(ctx, h.ID)
		if err != nil {
			return false, err
		}
		status = s
		return s.IsTerminal(), nil
	})
	return status, err
}

// PollUntilNoContent is the binary variant: the operation is done once the
// result endpoint answers 204 No Content. Any other code means not yet.
func PollUntilNoContent(ctx context.Context, h Handle, query StatusCodeFunc, opts ...Option) error {
	return poll(ctx, h, newOptions(opts), func(ctx context.Context) (bool, error) {
		code, err := query(ctx, h.ID)
		if err != nil {
			return false, err
		}
		return code == http.StatusNoContent, nil
	})
}

func newOptions(opts []Option) *options {
	o := &options{
		log:   logger.Get(),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func poll(ctx context.Context, h Handle, o *options, check func(context.Context) (bool, error)) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	if o.backoff != nil {
		o.backoff.Reset()
	}

	wait := h.RetryAfter
	for attempt := 1; ; attempt++ {
		if err := o.sleep(ctx, wait); err != nil {
			return o.contextErr(h, err)
		}

		done, err := check(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return o.contextErr(h, ctxErr)
			}
			return &TransportError{OperationID: h.ID, Err: err}
		}
		if done {
			o.log.Debugf("Operation %s reached a terminal state after %d polls", h.ID, attempt)
			return nil
		}

		if o.backoff != nil {
			next := o.backoff.NextBackOff()
			if next == backoff.Stop {
				return fmt.Errorf("%w: operation %s gave up after %d polls", ErrTimeout, h.ID, attempt)
			}
			wait = next
		}
		o.log.Debugf("Operation %s still running (poll %d), next poll in %s", h.ID, attempt, wait)
	}
}

func (o *options) contextErr(h Handle, err error) error {
	if o.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: operation %s did not finish within %s", ErrTimeout, h.ID, o.timeout)
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Sleep is the context-aware sleeper used by default.
var Sleep SleepFunc = sleepContext
