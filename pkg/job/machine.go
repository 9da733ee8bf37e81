package job

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// Machine validates and persists job state changes. Every change is a single
// Store.Update carrying status, progress and result together.
type Machine struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// NewMachine returns a machine writing to store. A nil logger discards.
func NewMachine(store Store, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Machine{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Store returns the underlying store.
func (m *Machine) Store() Store { return m.store }

// Transition moves job id to status to with the given progress and optional
// result. It fails with ErrCodeInvalidTransition if the current state does not
// allow the move.
func (m *Machine) Transition(ctx context.Context, id string, to Status, progress int, result *Result) error {
	j, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(j.Status, to) {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidTransition,
			"job %s: %s -> %s not allowed", id, j.Status, to)
	}
	if progress < 0 || progress > 100 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "progress %d out of range", progress)
	}

	u := Update{Status: to, Progress: progress, Result: result, UpdatedAt: m.now()}
	if err := m.store.Update(ctx, id, u); err != nil {
		return err
	}
	m.logger.Debug("job transition", "job", id, "from", j.Status, "status", to, "progress", progress)
	return nil
}

// Advance moves the job to the next working stage.
func (m *Machine) Advance(ctx context.Context, id string, to Status, progress int) error {
	return m.Transition(ctx, id, to, progress, nil)
}

// Complete finishes the job with a successful analysis.
func (m *Machine) Complete(ctx context.Context, id string, a *Analysis) error {
	return m.Transition(ctx, id, StatusCompleted, ProgressCompleted, Succeeded(a))
}

// Fail moves the job to FAILED with cause's message as the result.
func (m *Machine) Fail(ctx context.Context, id string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = pkgerrors.UserMessage(cause)
	}
	m.logger.Error("job failed", "job", id, "err", msg)
	return m.Transition(ctx, id, StatusFailed, ProgressFailed, Failed(msg))
}
