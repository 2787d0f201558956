package saga_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/jsamuelsen11/go-eventcore/internal/app/saga"
)

// --- Task tests ---

func TestTask_Success(t *testing.T) {
	t.Parallel()

	compensated := false
	task := saga.NewTask("issue card",
		func(context.Context) error { return nil },
		func(context.Context) { compensated = true },
	)

	if err := task.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if task.State() != saga.Finished {
		t.Errorf("State() = %v, want %v", task.State(), saga.Finished)
	}
	if compensated {
		t.Error("compensation ran on success")
	}
}

func TestTask_FailureCompensates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var seen []saga.TaskState
	var task *saga.Task
	task = saga.NewTask("issue card",
		func(context.Context) error {
			seen = append(seen, task.State())
			return boom
		},
		func(context.Context) { seen = append(seen, task.State()) },
	)

	err := task.Start(context.Background())
	if !errors.Is(err, saga.ErrCompensated) || !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want ErrCompensated wrapping boom", err)
	}
	if task.State() != saga.Aborted {
		t.Errorf("State() = %v, want %v", task.State(), saga.Aborted)
	}
	if !slices.Equal(seen, []saga.TaskState{saga.Running, saga.Aborting}) {
		t.Errorf("observed states = %v, want [running aborting]", seen)
	}
}

func TestTask_StartOnlyFromScheduledRun(t *testing.T) {
	t.Parallel()

	task := saga.NewTask("t", func(context.Context) error { return nil }, nil)
	_ = task.Start(context.Background())

	if err := task.Start(context.Background()); !errors.Is(err, saga.ErrTaskNotRunnable) {
		t.Fatalf("second Start() error = %v, want %v", err, saga.ErrTaskNotRunnable)
	}

	aborted := saga.NewTask("t", func(context.Context) error { return nil }, nil)
	aborted.Abort()
	if err := aborted.Start(context.Background()); !errors.Is(err, saga.ErrTaskNotRunnable) {
		t.Fatalf("Start() after Abort error = %v, want %v", err, saga.ErrTaskNotRunnable)
	}
}

func TestTask_CompletionOverwritesAbort(t *testing.T) {
	t.Parallel()

	var task *saga.Task
	task = saga.NewTask("t", func(context.Context) error {
		task.Abort()
		return nil
	}, nil)

	if err := task.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if task.State() != saga.Finished {
		t.Errorf("State() = %v, want %v", task.State(), saga.Finished)
	}
}

func TestTask_Compensate(t *testing.T) {
	t.Parallel()

	calls := 0
	task := saga.NewTask("t", func(context.Context) error { return nil }, func(context.Context) { calls++ })

	if err := task.Compensate(context.Background()); !errors.Is(err, saga.ErrNotFinished) {
		t.Fatalf("Compensate() before Start error = %v, want %v", err, saga.ErrNotFinished)
	}

	_ = task.Start(context.Background())
	if err := task.Compensate(context.Background()); err != nil {
		t.Fatalf("Compensate() error = %v", err)
	}
	if calls != 1 || task.State() != saga.Aborted {
		t.Errorf("calls = %d state = %v, want 1 aborted", calls, task.State())
	}
}

// --- Sequence tests ---

func TestSequence_UnwindsInReverse(t *testing.T) {
	t.Parallel()

	var log []string
	step := func(name string, err error) *saga.Task {
		return saga.NewTask(name,
			func(context.Context) error {
				log = append(log, "run "+name)
				return err
			},
			func(context.Context) { log = append(log, "undo "+name) },
		)
	}

	boom := errors.New("boom")
	seq := saga.NewSequence(step("a", nil), step("b", nil), step("c", boom), step("d", nil))

	err := seq.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if want := "step 3 (c)"; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("Run() error = %q, want prefix %q", err, want)
	}

	want := []string{"run a", "run b", "run c", "undo c", "undo b", "undo a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestSequence_AllSucceed(t *testing.T) {
	t.Parallel()

	a := saga.NewTask("a", func(context.Context) error { return nil }, nil)
	b := saga.NewTask("b", func(context.Context) error { return nil }, nil)

	if err := saga.NewSequence(a, b).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.State() != saga.Finished || b.State() != saga.Finished {
		t.Errorf("states = %v, %v, want finished", a.State(), b.State())
	}
}
