// Package convergence drives a batch of resources to a target status when
// the provider offers no operation handle to poll, only the current state of
// each resource.
package convergence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/lro"
)

// DefaultInterval is the pause between two rounds of status queries.
const DefaultInterval = 2 * time.Second

// StatusFunc returns the current status text of the named resource.
type StatusFunc func(ctx context.Context, name string) (string, error)

// ProgressFunc is notified after every round.
type ProgressFunc func(completed, total int, label string)

type Tracker struct {
	Interval time.Duration
	// Timeout bounds the whole run. Zero waits for as long as it takes.
	Timeout  time.Duration
	Label    string
	Progress ProgressFunc
	Sleep    lro.SleepFunc
	Logger   *logger.Logger
}

// Converge queries every pending resource once per round, in the set's
// initial order, and moves those matching target to completed. It returns
// the number of rounds run. A query error aborts the run.
func (t *Tracker) Converge(ctx context.Context, set *Set, target TargetState, query StatusFunc) (int, error) {
	l := t.Logger
	if l == nil {
		l = logger.Get()
	}
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	sleep := t.Sleep
	if sleep == nil {
		sleep = lro.Sleep
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	rounds := 0
	for !set.Done() {
		if rounds > 0 {
			if err := sleep(ctx, interval); err != nil {
				return rounds, t.contextErr(err)
			}
		}
		rounds++

		var done []string
		for _, name := range set.Remaining() {
			status, err := query(ctx, name)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return rounds, t.contextErr(ctxErr)
				}
				return rounds, fmt.Errorf("failed to get status of %s: %w", name, err)
			}
			l.Debugf("Round %d: %s reports %q", rounds, name, status)
			if target.MatchedBy(status) {
				done = append(done, name)
			}
		}
		set.complete(done)

		if t.Progress != nil {
			t.Progress(set.Completed(), set.Total(), t.Label)
		}
	}

	l.Debugf("All %d resources reached %q after %d rounds", set.Total(), string(target), rounds)
	return rounds, nil
}

func (t *Tracker) contextErr(err error) error {
	if t.Timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: resources did not converge within %s", lro.ErrTimeout, t.Timeout)
	}
	return err
}
