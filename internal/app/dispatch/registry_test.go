package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-eventcore/internal/app/dispatch"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
	"github.com/jsamuelsen11/go-eventcore/mocks"
)

type ping struct{ id int }

// --- Handle tests ---

func TestHandle_NoRegistrationIsSilentSuccess(t *testing.T) {
	t.Parallel()

	r := dispatch.New[ping]()
	if err := r.Handle(context.Background(), ping{id: 1}); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
}

func TestHandle_InvokesRegisteredHandler(t *testing.T) {
	t.Parallel()

	h := mocks.NewMockMessageHandler[ping](t)
	h.EXPECT().Handle(mock.Anything, ping{id: 1}).Return(nil).Once()

	r := dispatch.New[ping]()
	r.Register(ping{id: 1}, h)

	if err := r.Handle(context.Background(), ping{id: 1}); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	// Unregistered value: handler must not run again.
	if err := r.Handle(context.Background(), ping{id: 2}); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
}

func TestHandle_ReturnsHandlerErrorUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := dispatch.New[ping]()
	r.Register(ping{id: 1}, ports.MessageHandlerFunc[ping](func(context.Context, ping) error {
		return boom
	}))

	if err := r.Handle(context.Background(), ping{id: 1}); err != boom { //nolint:errorlint // identity is the contract
		t.Fatalf("Handle() error = %v, want %v", err, boom)
	}
}

func TestRegister_LastWriteWins(t *testing.T) {
	t.Parallel()

	var got string
	r := dispatch.New[ping]()
	r.Register(ping{id: 1}, ports.MessageHandlerFunc[ping](func(context.Context, ping) error {
		got = "first"
		return nil
	}))
	r.Register(ping{id: 1}, ports.MessageHandlerFunc[ping](func(context.Context, ping) error {
		got = "second"
		return nil
	}))

	if err := r.Handle(context.Background(), ping{id: 1}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got != "second" {
		t.Errorf("handler = %q, want %q", got, "second")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestUnregister(t *testing.T) {
	t.Parallel()

	r := dispatch.New[ping]()
	r.Register(ping{id: 1}, ports.MessageHandlerFunc[ping](func(context.Context, ping) error { return nil }))

	if !r.Registered(ping{id: 1}) {
		t.Fatal("Registered() = false, want true")
	}
	if !r.Unregister(ping{id: 1}) {
		t.Error("Unregister() = false, want true")
	}
	if r.Unregister(ping{id: 1}) {
		t.Error("second Unregister() = true, want false")
	}
	if r.Registered(ping{id: 1}) {
		t.Error("Registered() = true after Unregister")
	}
}

// --- NewKeyed tests ---

func TestNewKeyed_RoutesByEventName(t *testing.T) {
	t.Parallel()

	r := dispatch.NewKeyed(func(m message.EventMessage) string { return m.EventName() })

	var seen []string
	r.Register("account.opened", ports.MessageHandlerFunc[message.EventMessage](
		func(_ context.Context, m message.EventMessage) error {
			seen = append(seen, m.EventName())
			return nil
		}))

	ctx := context.Background()
	_ = r.Handle(ctx, message.NewEventMessage("account.opened", 1))
	_ = r.Handle(ctx, message.NewEventMessage("account.closed", 2))
	_ = r.Handle(ctx, message.NewEventMessage("account.opened", 3))

	if len(seen) != 2 {
		t.Fatalf("handled = %v, want two account.opened", seen)
	}
}

func TestHandle_ConcurrentRegistration(t *testing.T) {
	t.Parallel()

	r := dispatch.New[int]()
	noop := ports.MessageHandlerFunc[int](func(context.Context, int) error { return nil })

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() { r.Register(i, noop) })
		wg.Go(func() { _ = r.Handle(context.Background(), i) })
	}
	wg.Wait()

	if r.Len() != 50 {
		t.Errorf("Len() = %d, want 50", r.Len())
	}
}

// --- Broadcast tests ---

func TestBroadcast_RunsEveryHandler(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	var ran []int
	h := dispatch.Broadcast(
		ports.MessageHandlerFunc[int](func(context.Context, int) error {
			ran = append(ran, 1)
			return first
		}),
		ports.MessageHandlerFunc[int](func(context.Context, int) error {
			ran = append(ran, 2)
			return nil
		}),
	)

	err := h.Handle(context.Background(), 7)
	if !errors.Is(err, first) {
		t.Fatalf("Handle() error = %v, want %v", err, first)
	}
	if len(ran) != 2 {
		t.Errorf("ran = %v, want both handlers", ran)
	}
}
