package renewal

import (
	"context"
	"time"

	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/metrics"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Actor is whoever is attempting the renewal. A nil *models.User holds no
// capabilities.
type Actor interface {
	HasCapability(name string) bool
}

// Store loads and saves book instances.
type Store interface {
	RetrieveInstance(ctx context.Context, opts bookinstances.RetrieveInstanceOptions) (*models.BookInstance, error)
	UpdateInstance(ctx context.Context, instance *models.BookInstance, opts bookinstances.UpdateInstanceOptions) error
}

// Form is what the renewal page shows.
type Form struct {
	RenewalDate string
	HelpText    string
	Errors      []string
}

// Result is the outcome of a renewal step. When Committed is false the form
// should be shown again.
type Result struct {
	Instance  *models.BookInstance
	Form      Form
	Committed bool
}

type Workflow struct {
	store    Store
	policy   Policy
	recorder metrics.RenewalRecorder
	now      func() time.Time
}

func NewWorkflow(store Store, policy Policy, recorder metrics.RenewalRecorder) *Workflow {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Workflow{
		store:    store,
		policy:   policy,
		recorder: recorder,
		now:      time.Now,
	}
}

func (w *Workflow) authorize(ctx context.Context, actor Actor) error {
	if actor == nil || !actor.HasCapability(models.CapabilityMarkReturned) {
		w.recorder.RecordRenewal(ctx, metrics.OutcomeForbidden)
		return errcodes.Forbidden("Renewing books")
	}
	return nil
}

// Display loads the instance and pre-fills the form with the default date.
// Nothing is persisted.
func (w *Workflow) Display(ctx context.Context, actor Actor, instanceID string) (*Result, error) {
	if err := w.authorize(ctx, actor); err != nil {
		return nil, err
	}

	instance, err := w.store.RetrieveInstance(ctx, bookinstances.RetrieveInstanceOptions{ID: &instanceID})
	if err != nil {
		return nil, err
	}

	return &Result{
		Instance: instance,
		Form: Form{
			RenewalDate: w.policy.Default(w.now()).Format(models.DateLayout),
			HelpText:    w.policy.HelpText(),
		},
	}, nil
}

// Submit validates the proposed date and, when it's inside the renewal
// window, stores it as the instance's due date. An invalid date is returned
// as a form error and leaves the instance untouched.
func (w *Workflow) Submit(ctx context.Context, actor Actor, instanceID, renewalDate string) (*Result, error) {
	if err := w.authorize(ctx, actor); err != nil {
		return nil, err
	}

	instance, err := w.store.RetrieveInstance(ctx, bookinstances.RetrieveInstanceOptions{ID: &instanceID})
	if err != nil {
		return nil, err
	}

	due, err := w.policy.Validate(renewalDate, w.now())
	if err != nil {
		var fieldErr *FieldError
		if !errors.As(err, &fieldErr) {
			return nil, err
		}
		w.recorder.RecordRenewal(ctx, metrics.OutcomeRejected)
		return &Result{
			Instance: instance,
			Form: Form{
				RenewalDate: renewalDate,
				HelpText:    w.policy.HelpText(),
				Errors:      []string{fieldErr.Message},
			},
		}, nil
	}

	instance.DueBack = &due
	err = w.store.UpdateInstance(ctx, instance, bookinstances.UpdateInstanceOptions{
		Columns: []string{"due_back"},
	})
	if err != nil {
		return nil, err
	}
	w.recorder.RecordRenewal(ctx, metrics.OutcomeCommitted)

	logger.FromContext(ctx).Info("book instance renewed", logger.Data{
		"instance_id": instance.ID,
		"due_back":    due.Format(models.DateLayout),
	})

	return &Result{
		Instance:  instance,
		Form:      Form{RenewalDate: due.Format(models.DateLayout), HelpText: w.policy.HelpText()},
		Committed: true,
	}, nil
}
