package memjournal_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsamuelsen11/go-eventcore/internal/adapters/memjournal"
	"github.com/jsamuelsen11/go-eventcore/internal/domain"
)

func TestLoad_UnknownStream(t *testing.T) {
	t.Parallel()

	j := memjournal.New[string]()
	events, version, err := j.Load(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(events) != 0 || version != 0 {
		t.Errorf("Load() = %v, %d, want empty at version 0", events, version)
	}
}

func TestAppend_ThenLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := memjournal.New[string](memjournal.WithInitialCapacity(4))

	if err := j.Append(ctx, "acc-1", 0, []string{"opened"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := j.Append(ctx, "acc-1", 1, []string{"closed"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	events, version, err := j.Load(ctx, "acc-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(events, []string{"opened", "closed"}) || version != 2 {
		t.Errorf("Load() = %v, %d, want [opened closed], 2", events, version)
	}
}

func TestAppend_VersionConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := memjournal.New[string]()
	_ = j.Append(ctx, "acc-1", 0, []string{"opened"})

	err := j.Append(ctx, "acc-1", 0, []string{"opened"})
	if !errors.Is(err, memjournal.ErrVersionConflict) {
		t.Fatalf("Append() error = %v, want %v", err, memjournal.ErrVersionConflict)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Append() error = %v, want it to classify as %v", err, domain.ErrConflict)
	}
}

func TestLoad_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := memjournal.New[string]()
	_ = j.Append(ctx, "acc-1", 0, []string{"opened"})

	events, _, _ := j.Load(ctx, "acc-1")
	events[0] = "tampered"

	again, _, _ := j.Load(ctx, "acc-1")
	if again[0] != "opened" {
		t.Errorf("stored event = %q, want %q", again[0], "opened")
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := memjournal.New[string]()
	if _, _, err := j.Load(ctx, "acc-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want %v", err, context.Canceled)
	}
	if err := j.Append(ctx, "acc-1", 0, []string{"x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Append() error = %v, want %v", err, context.Canceled)
	}
}

func TestStreams_Sorted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := memjournal.New[int]()
	_ = j.Append(ctx, "b", 0, []int{1})
	_ = j.Append(ctx, "a", 0, []int{1})
	_ = j.Append(ctx, "c", 0, nil)

	if got := j.Streams(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Streams() = %v, want [a b]", got)
	}
}

func TestAppend_ConcurrentWritersOneWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := memjournal.New[string]()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			if err := j.Append(ctx, "acc-1", 0, []string{fmt.Sprint(i)}); err == nil {
				wins.Add(1)
			}
		})
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("successful appends = %d, want 1", wins.Load())
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	j := memjournal.New[string](memjournal.WithName("accounts"))
	if j.Name() != "accounts" {
		t.Errorf("Name() = %q, want %q", j.Name(), "accounts")
	}
	if err := j.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}
