// Package backup registers virtual machines for backup protection in a
// Recovery Services vault and reports a per-VM outcome for the batch.
package backup

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/wbuck/azvm-manager/pkg/convergence"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is the terminal status of one registration.
type Outcome struct {
	Resource models.ResourceRef   `json:"resource"       yaml:"resource"`
	Status   lro.Status           `json:"status"         yaml:"status"`
	Item     *models.ProtectedItem `json:"item,omitempty" yaml:"item,omitempty"`
}

func (o Outcome) Err() error {
	if err := o.Status.Err(); err != nil {
		return fmt.Errorf("%s: %w", o.Resource.Name, err)
	}
	return nil
}

type Result struct {
	Outcomes  []Outcome `json:"outcomes"  yaml:"outcomes"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Total     int       `json:"total"     yaml:"total"`
}

// Err aggregates the failed outcomes. It is nil when every recorded item
// succeeded.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, o := range r.Outcomes {
		if err := o.Err(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

func (r *Result) Summary() string {
	return fmt.Sprintf("%d/%d succeeded", r.Succeeded, r.Total)
}

type Orchestrator struct {
	Registrar Registrar
	// PollOptions returns the poller options for one item. It is called per
	// item so stateful options such as a backoff policy are never shared.
	PollOptions func() []lro.Option
	// Progress is called with (succeeded, total, Label) after every item.
	Progress convergence.ProgressFunc
	Label    string
	// Concurrency above one registers that many items at a time.
	Concurrency int
	Logger      *logger.Logger
}

// Register submits a protection request for each selected VM and waits for
// it to finish. A provider-reported failure is recorded as that item's
// outcome and the batch continues. A failed submission, a response without
// an operation handle or a transport error while polling stops the batch;
// the partial result is returned with the error.
func (o *Orchestrator) Register(
	ctx context.Context,
	scope models.Scope,
	vms []models.VirtualMachine,
	filter []string,
) (*Result, error) {
	items := SelectItems(scope, vms, filter)
	res := &Result{Total: len(items), Outcomes: make([]Outcome, 0, len(items))}
	if len(items) == 0 {
		return res, nil
	}

	if o.Concurrency > 1 {
		return o.registerConcurrently(ctx, scope, items, res)
	}

	for _, item := range items {
		out, err := o.registerOne(ctx, scope, item)
		if err != nil {
			return res, err
		}
		o.record(res, out)
	}
	return res, nil
}

func (o *Orchestrator) registerConcurrently(
	ctx context.Context,
	scope models.Scope,
	items []Item,
	res *Result,
) (*Result, error) {
	outcomes := make([]*Outcome, len(items))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out, err := o.registerOne(gctx, scope, item)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			outcomes[i] = &out
			if out.Status.Succeeded() {
				res.Succeeded++
			}
			o.progress(res)
			return nil
		})
	}
	err := g.Wait()

	for _, out := range outcomes {
		if out != nil {
			res.Outcomes = append(res.Outcomes, *out)
		}
	}
	return res, err
}

func (o *Orchestrator) registerOne(ctx context.Context, scope models.Scope, item Item) (Outcome, error) {
	l := o.log(ctx).With(zap.String("vm", item.VM.Name))
	l.Infof("Registering %s for backup with policy %s", item.VM.Name, DefaultPolicyName)

	sub, err := o.Registrar.Submit(ctx, scope, item)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to submit protection for %s: %w", item.VM.Name, err)
	}
	h, err := lro.Locate(sub.Header)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to locate protection operation for %s: %w", item.VM.Name, err)
	}
	l.Debugf("Protection operation %s accepted, first poll in %s", h.ID, h.RetryAfter)

	status, err := lro.PollUntilTerminal(ctx, h, func(ctx context.Context, id string) (lro.Status, error) {
		return o.Registrar.OperationStatus(ctx, scope, item, id)
	}, o.pollOptions(l)...)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed waiting for protection of %s: %w", item.VM.Name, err)
	}

	out := Outcome{Resource: item.Ref(), Status: status}
	if !status.Succeeded() {
		l.Warnf("Protection of %s finished with status %s", item.VM.Name, status)
		return out, nil
	}

	protected, err := o.Registrar.OperationResult(ctx, scope, item, h.ID)
	if err != nil {
		l.Warnf("Protection of %s succeeded but the protected item could not be fetched: %v", item.VM.Name, err)
		return out, nil
	}
	out.Item = protected
	l.Infof("Protection of %s succeeded", item.VM.Name)
	return out, nil
}

func (o *Orchestrator) record(res *Result, out Outcome) {
	res.Outcomes = append(res.Outcomes, out)
	if out.Status.Succeeded() {
		res.Succeeded++
	}
	o.progress(res)
}

func (o *Orchestrator) progress(res *Result) {
	if o.Progress != nil {
		o.Progress(res.Succeeded, res.Total, o.Label)
	}
}

func (o *Orchestrator) pollOptions(l *logger.Logger) []lro.Option {
	opts := []lro.Option{lro.WithLogger(l)}
	if o.PollOptions != nil {
		opts = append(opts, o.PollOptions()...)
	}
	return opts
}

func (o *Orchestrator) log(ctx context.Context) *logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.FromContext(ctx)
}
