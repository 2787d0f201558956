package message

import "fmt"

// Message is implemented by everything the core dispatches. Two messages that
// share an identifier are the same conceptual message, possibly carrying
// different metadata.
type Message interface {
	Identifier() Entity
	Metadata() MetaData
	Payload() Payload
}

// Compile-time interface checks.
var (
	_ Message = EventMessage{}
	_ Message = CommandMessage{}
)

// EventMessage carries a domain event. Construction stamps the event name
// and the originating entity into the metadata.
type EventMessage struct {
	identifier Entity
	metadata   MetaData
	payload    Payload
}

// NewEventMessage wraps payload as the event named eventName. The identifier
// is a fresh entity named after the event.
func NewEventMessage(eventName string, payload any) EventMessage {
	id := EntityFromName(eventName)
	md := NewMetaData()
	md.Add(EventNameKey, eventName)
	stampEntity(&md, id)

	return EventMessage{
		identifier: id,
		metadata:   md,
		payload:    NewPayload(payload),
	}
}

// Identifier implements Message.
func (m EventMessage) Identifier() Entity { return m.identifier }

// Metadata implements Message. The returned value is a copy.
func (m EventMessage) Metadata() MetaData { return m.metadata.Clone() }

// Payload implements Message.
func (m EventMessage) Payload() Payload { return m.payload }

// EventName returns the stamped event name.
func (m EventMessage) EventName() string {
	name, _ := m.metadata.GetString(EventNameKey)
	return name
}

// WithIdentifier returns a copy identified by id, with the entity keys
// re-stamped.
func (m EventMessage) WithIdentifier(id Entity) EventMessage {
	md := m.metadata.Clone()
	stampEntity(&md, id)
	return EventMessage{identifier: id, metadata: md, payload: m.payload}
}

// WithMeta returns a copy with key set to value.
func (m EventMessage) WithMeta(key string, value any) EventMessage {
	return EventMessage{identifier: m.identifier, metadata: m.metadata.With(key, value), payload: m.payload}
}

// WithMetadata returns a copy with md merged in. Keys from md win.
func (m EventMessage) WithMetadata(md MetaData) EventMessage {
	return EventMessage{identifier: m.identifier, metadata: m.metadata.Merged(md), payload: m.payload}
}

// CommandMessage carries a command into a unit of work.
type CommandMessage struct {
	identifier Entity
	metadata   MetaData
	payload    Payload
}

// NewCommandMessage wraps payload as the command named commandName.
func NewCommandMessage(commandName string, payload any) CommandMessage {
	id := EntityFromName(commandName)
	md := NewMetaData()
	md.Add(CommandNameKey, commandName)
	stampEntity(&md, id)

	return CommandMessage{
		identifier: id,
		metadata:   md,
		payload:    NewPayload(payload),
	}
}

// Identifier implements Message.
func (m CommandMessage) Identifier() Entity { return m.identifier }

// Metadata implements Message. The returned value is a copy.
func (m CommandMessage) Metadata() MetaData { return m.metadata.Clone() }

// Payload implements Message.
func (m CommandMessage) Payload() Payload { return m.payload }

// CommandName returns the stamped command name.
func (m CommandMessage) CommandName() string {
	name, _ := m.metadata.GetString(CommandNameKey)
	return name
}

// WithMeta returns a copy with key set to value.
func (m CommandMessage) WithMeta(key string, value any) CommandMessage {
	return CommandMessage{identifier: m.identifier, metadata: m.metadata.With(key, value), payload: m.payload}
}

// WithMetadata returns a copy with md merged in. Keys from md win.
func (m CommandMessage) WithMetadata(md MetaData) CommandMessage {
	return CommandMessage{identifier: m.identifier, metadata: m.metadata.Merged(md), payload: m.payload}
}

func stampEntity(md *MetaData, id Entity) {
	md.Add(EntityKey, id)
	md.Add(EntityIDKey, id.ID())
	md.Add(EntityNameKey, id.Name())
}

// NameOf returns the command or event name of v when it exposes one, and its
// Go type otherwise.
func NameOf(v any) string {
	switch m := v.(type) {
	case interface{ CommandName() string }:
		return m.CommandName()
	case interface{ EventName() string }:
		return m.EventName()
	default:
		return fmt.Sprintf("%T", v)
	}
}
