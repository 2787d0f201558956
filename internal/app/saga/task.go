package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
)

// TaskState is the lifecycle state of a Task.
type TaskState int

const (
	ScheduledRun TaskState = iota
	ScheduledAbort
	Running
	Aborting
	Finished
	Aborted
)

// String implements fmt.Stringer.
func (s TaskState) String() string {
	switch s {
	case ScheduledRun:
		return "scheduled_run"
	case ScheduledAbort:
		return "scheduled_abort"
	case Running:
		return "running"
	case Aborting:
		return "aborting"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

var (
	// ErrTaskNotRunnable is returned by Start outside ScheduledRun.
	ErrTaskNotRunnable = errors.New("saga: task is not runnable")

	// ErrCompensated wraps the action error of a task that failed and was
	// compensated.
	ErrCompensated = errors.New("saga: task compensated")

	// ErrNotFinished is returned by Compensate for a task that did not finish.
	ErrNotFinished = errors.New("saga: task not finished")
)

// Task is one fallible action paired with a compensation that undoes it.
type Task struct {
	description  string
	action       func(context.Context) error
	compensation func(context.Context)

	mu    sync.RWMutex
	state TaskState
}

// NewTask returns a task in ScheduledRun.
func NewTask(description string, action func(context.Context) error, compensation func(context.Context)) *Task {
	return &Task{description: description, action: action, compensation: compensation}
}

// Description returns the task's label.
func (t *Task) Description() string { return t.description }

// State returns the current state.
func (t *Task) State() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Task) set(state TaskState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

// Start runs the action. On failure the compensation runs and the returned
// error wraps ErrCompensated and the action error.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.state != ScheduledRun {
		state := t.state
		t.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrTaskNotRunnable, t.description, state)
	}
	t.state = Running
	t.mu.Unlock()

	if err := t.action(ctx); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "task failed, compensating",
			slog.String("operation", "Task.Start"),
			slog.String("task", t.description),
			slog.Any("error", err),
		)
		t.compensate(ctx)
		return fmt.Errorf("%w: %s: %w", ErrCompensated, t.description, err)
	}

	t.set(Finished)
	return nil
}

// Abort marks the task Aborted. It does not interrupt a running action; a
// running task that completes overwrites the abort.
func (t *Task) Abort() { t.set(Aborted) }

// Compensate undoes a Finished task.
func (t *Task) Compensate(ctx context.Context) error {
	if state := t.State(); state != Finished {
		return fmt.Errorf("%w: %s is %s", ErrNotFinished, t.description, state)
	}
	t.compensate(ctx)
	return nil
}

func (t *Task) compensate(ctx context.Context) {
	t.set(Aborting)
	if t.compensation != nil {
		t.compensation(ctx)
	}
	t.set(Aborted)
}
