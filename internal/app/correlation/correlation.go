// Package correlation provides the policies that decide which metadata a
// message passes on to the messages it causes.
//
//	provider := correlation.NewMulti(
//	    correlation.NewSimple("tenant", "locale"),
//	    correlation.NewOriginator(cmd.Identifier().ID(), fallbackTrace),
//	)
//	evt = correlation.Derive(provider, cmd, evt)
package correlation

import (
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.CorrelationProvider = (*Simple)(nil)
	_ ports.CorrelationProvider = (*Originator)(nil)
	_ ports.CorrelationProvider = (*Multi)(nil)
)

// Simple copies a fixed set of keys from the source metadata. Keys absent on
// the source are skipped.
type Simple struct {
	keys []string
}

// NewSimple returns a provider copying the given keys.
func NewSimple(keys ...string) *Simple {
	return &Simple{keys: append([]string(nil), keys...)}
}

// CorrelationFor implements ports.CorrelationProvider.
func (s *Simple) CorrelationFor(msg message.Message) message.MetaData {
	source := msg.Metadata()
	out := message.NewMetaData()
	for _, key := range s.keys {
		if v, ok := source.Get(key); ok {
			out.Add(key, v)
		}
	}
	return out
}

// Originator stamps a configured correlation id and propagates the source's
// trace id, falling back to a configured trace id when the source has none.
type Originator struct {
	correlationID string
	traceID       string
}

// NewOriginator returns a provider stamping correlationID, with traceID as
// the fallback trace id.
func NewOriginator(correlationID, traceID string) *Originator {
	return &Originator{correlationID: correlationID, traceID: traceID}
}

// CorrelationFor implements ports.CorrelationProvider.
func (o *Originator) CorrelationFor(msg message.Message) message.MetaData {
	out := message.NewMetaData()
	out.Add(message.CorrelationIDKey, o.correlationID)

	if trace, ok := msg.Metadata().Get(message.TraceIDKey); ok {
		out.Add(message.TraceIDKey, trace)
	} else {
		out.Add(message.TraceIDKey, o.traceID)
	}
	return out
}

// Multi merges the results of its delegates in order. Later delegates win on
// key collision.
type Multi struct {
	delegates []ports.CorrelationProvider
}

// NewMulti returns a provider over delegates, applied in the given order.
func NewMulti(delegates ...ports.CorrelationProvider) *Multi {
	return &Multi{delegates: append([]ports.CorrelationProvider(nil), delegates...)}
}

// CorrelationFor implements ports.CorrelationProvider.
func (m *Multi) CorrelationFor(msg message.Message) message.MetaData {
	out := message.NewMetaData()
	for _, d := range m.delegates {
		out.Merge(d.CorrelationFor(msg))
	}
	return out
}

// Derive stamps derived with the correlation metadata provider computes from
// source. Keys from the provider win over keys already on derived.
func Derive(provider ports.CorrelationProvider, source message.Message, derived message.EventMessage) message.EventMessage {
	return derived.WithMetadata(provider.CorrelationFor(source))
}

// DeriveCommand is Derive for command messages.
func DeriveCommand(provider ports.CorrelationProvider, source message.Message, derived message.CommandMessage) message.CommandMessage {
	return derived.WithMetadata(provider.CorrelationFor(source))
}
