package saga

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
)

// Sequence runs tasks one after another.
type Sequence struct {
	tasks []*Task
}

// NewSequence returns a sequence over tasks, run in the given order.
func NewSequence(tasks ...*Task) *Sequence {
	return &Sequence{tasks: tasks}
}

// Run starts every task in order. If one fails, it has already compensated
// itself; the tasks finished before it are compensated in reverse order and
// the returned error names the failed step.
func (s *Sequence) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	for i, task := range s.tasks {
		logger.DebugContext(ctx, "running task",
			slog.String("operation", "Sequence.Run"),
			slog.Int("step", i+1),
			slog.Int("total", len(s.tasks)),
			slog.String("task", task.Description()),
		)

		if err := task.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "task failed, unwinding sequence",
				slog.String("operation", "Sequence.Run"),
				slog.Int("failed_step", i+1),
				slog.String("task", task.Description()),
				slog.Any("error", err),
			)
			s.unwind(ctx, i-1)
			return fmt.Errorf("step %d (%s): %w", i+1, task.Description(), err)
		}
	}
	return nil
}

// unwind compensates tasks 0..upTo in reverse order.
func (s *Sequence) unwind(ctx context.Context, upTo int) {
	for i := upTo; i >= 0; i-- {
		if err := s.tasks[i].Compensate(ctx); err != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "compensation skipped",
				slog.String("operation", "Sequence.Run"),
				slog.Int("step", i+1),
				slog.Any("error", err),
			)
		}
	}
}
