package correlation_test

import (
	"testing"

	"github.com/jsamuelsen11/go-eventcore/internal/app/correlation"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// fixedProvider returns the same metadata for every message.
type fixedProvider struct {
	md message.MetaData
}

func (f fixedProvider) CorrelationFor(message.Message) message.MetaData { return f.md.Clone() }

func source(meta map[string]any) message.EventMessage {
	return message.NewEventMessage("account.opened", nil).WithMetadata(message.MetaDataFrom(meta))
}

// --- Simple tests ---

func TestSimple_CopiesOnlyPresentKeys(t *testing.T) {
	t.Parallel()

	p := correlation.NewSimple("tenant", "locale")
	got := p.CorrelationFor(source(map[string]any{"tenant": "acme", "other": "x"}))

	if got.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (keys %v)", got.Len(), got.Keys())
	}
	if v, _ := got.GetString("tenant"); v != "acme" {
		t.Errorf("tenant = %q, want %q", v, "acme")
	}
	if got.Contains("locale") {
		t.Error("absent key locale should be skipped")
	}
}

func TestSimple_NoKeys(t *testing.T) {
	t.Parallel()

	got := correlation.NewSimple().CorrelationFor(source(map[string]any{"tenant": "acme"}))
	if !got.IsEmpty() {
		t.Errorf("CorrelationFor() = %v, want empty", got.Keys())
	}
}

// --- Originator tests ---

func TestOriginator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		meta      map[string]any
		wantTrace string
	}{
		{
			name:      "propagates source trace id",
			meta:      map[string]any{message.TraceIDKey: "X"},
			wantTrace: "X",
		},
		{
			name:      "falls back to configured trace id",
			meta:      map[string]any{},
			wantTrace: "T",
		},
		{
			name:      "ignores source correlation id",
			meta:      map[string]any{message.CorrelationIDKey: "other", message.TraceIDKey: "X"},
			wantTrace: "X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := correlation.NewOriginator("C", "T")
			got := p.CorrelationFor(source(tt.meta))

			if v, _ := got.GetString(message.TraceIDKey); v != tt.wantTrace {
				t.Errorf("trace id = %q, want %q", v, tt.wantTrace)
			}
			if v, _ := got.GetString(message.CorrelationIDKey); v != "C" {
				t.Errorf("correlation id = %q, want %q", v, "C")
			}
		})
	}
}

// --- Multi tests ---

func TestMulti_LaterDelegateWins(t *testing.T) {
	t.Parallel()

	a := fixedProvider{md: message.NewMetaData().With("k", "A").With("only_a", 1)}
	b := fixedProvider{md: message.NewMetaData().With("k", "B")}

	got := correlation.NewMulti(a, b).CorrelationFor(source(nil))

	if v, _ := got.GetString("k"); v != "B" {
		t.Errorf("k = %q, want %q", v, "B")
	}
	if !got.Contains("only_a") {
		t.Error("Multi dropped a key only the first delegate set")
	}
}

func TestMulti_Empty(t *testing.T) {
	t.Parallel()

	got := correlation.NewMulti().CorrelationFor(source(nil))
	if !got.IsEmpty() {
		t.Errorf("CorrelationFor() = %v, want empty", got.Keys())
	}
}

// --- Derive tests ---

func TestDerive_StampsDerivedMessage(t *testing.T) {
	t.Parallel()

	cause := message.NewCommandMessage("account.open", nil).WithMeta(message.TraceIDKey, "trace-9")
	var provider ports.CorrelationProvider = correlation.NewOriginator(cause.Identifier().ID(), "fallback")

	evt := correlation.Derive(provider, cause, message.NewEventMessage("account.opened", nil))
	md := evt.Metadata()

	if v, _ := md.GetString(message.CorrelationIDKey); v != cause.Identifier().ID() {
		t.Errorf("correlation id = %q, want %q", v, cause.Identifier().ID())
	}
	if v, _ := md.GetString(message.TraceIDKey); v != "trace-9" {
		t.Errorf("trace id = %q, want %q", v, "trace-9")
	}
	if evt.EventName() != "account.opened" {
		t.Errorf("Derive() changed event name to %q", evt.EventName())
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.CorrelationConfig{Headers: []string{"tenant"}, FallbackTraceID: "fallback"}
	p := correlation.FromConfig(cfg, "corr-1")

	got := p.CorrelationFor(source(map[string]any{"tenant": "acme"}))

	if v, _ := got.GetString("tenant"); v != "acme" {
		t.Errorf("tenant = %q, want %q", v, "acme")
	}
	if v, _ := got.GetString(message.CorrelationIDKey); v != "corr-1" {
		t.Errorf("correlation id = %q, want %q", v, "corr-1")
	}
	if v, _ := got.GetString(message.TraceIDKey); v != "fallback" {
		t.Errorf("trace id = %q, want %q", v, "fallback")
	}
}
