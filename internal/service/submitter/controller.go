package submitter

import (
	"context"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/logger"
	"github.com/oshokin/security-panel/internal/metrics"
)

// Backend is the part of the alarm controller API used by submissions.
type Backend interface {
	VerifyCode(ctx context.Context, code string) (*domain.Verdict, error)
	Disarm(ctx context.Context) (string, error)
}

// Store receives the events produced by submissions.
type Store interface {
	Dispatch(ctx context.Context, event domain.Event) domain.State
}

// outcomeTransportError labels failed verifications in metrics.
const outcomeTransportError = "transport_error"

// Controller runs code submissions against the backend.
type Controller struct {
	// backend verifies codes and silences the device.
	backend Backend
	// store holds the operator-visible state.
	store Store
}

// New creates a Controller.
func New(backend Backend, store Store) *Controller {
	return &Controller{
		backend: backend,
		store:   store,
	}
}

// Submit starts one attempt in the background and returns immediately.
// Its effects are observable only through the store.
func (c *Controller) Submit(ctx context.Context, code string) {
	go c.Attempt(ctx, code)
}

// Attempt verifies the code, dispatches the matching event and returns it.
// Nothing is retried: the operator resubmits.
func (c *Controller) Attempt(ctx context.Context, code string) domain.Event {
	ctx = logger.WithName(ctx, "submitter")

	logger.DebugKV(ctx, "Submitting code", "code_length", len(code))

	verdict, err := c.backend.VerifyCode(ctx, code)
	if err != nil {
		logger.ErrorKV(ctx, "Code verification failed", "error", err)
		metrics.IncSubmission(outcomeTransportError)

		event := domain.TransportErrorEvent(err)
		c.store.Dispatch(ctx, event)

		return event
	}

	outcome := verdict.Outcome()

	logger.InfoKV(
		ctx,
		"Verdict received",
		"status", verdict.Status,
		"outcome", outcome.String(),
		"active", verdict.Active,
		"timestamp", verdict.Timestamp,
	)

	if outcome == domain.OutcomeUnrecognized {
		logger.WarnKV(ctx, "Unrecognized verdict status, reporting alarm as still active", "status", verdict.Status)
	}

	metrics.IncSubmission(outcome.String())

	event := domain.EventFromVerdict(verdict)
	c.store.Dispatch(ctx, event)

	if event.Kind == domain.EventSubmissionAccepted {
		c.disarm(ctx)
	}

	return event
}

// disarm fires the silence command on its own goroutine. It is never joined,
// survives cancellation of ctx and never dispatches.
func (c *Controller) disarm(ctx context.Context) {
	ctx = logger.WithName(context.WithoutCancel(ctx), "disarm")

	go func() {
		body, err := c.backend.Disarm(ctx)
		metrics.IncDisarm(metrics.Result(err))

		if err != nil {
			logger.ErrorKV(ctx, "Disarm command failed", "error", err)
			return
		}

		logger.InfoKV(ctx, "Disarm command sent", "response", body)
	}()
}
