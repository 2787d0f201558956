package message

import (
	"fmt"
)

// Payload is the opaque, read-only body carried by a message.
type Payload struct {
	value any
}

// NewPayload wraps value. Callers must not mutate value afterwards.
func NewPayload(value any) Payload {
	return Payload{value: value}
}

// Value returns the wrapped value.
func (p Payload) Value() any { return p.value }

// IsNil reports whether the payload carries no value.
func (p Payload) IsNil() bool { return p.value == nil }

// As returns the payload value as T when it holds one.
func As[T any](p Payload) (T, bool) {
	v, ok := p.value.(T)
	return v, ok
}

// Decode converts the payload into into, which must be a pointer, through
// the value's JSON form. Use As when the concrete type is already known.
func (p Payload) Decode(into any) error {
	data, err := codec.Marshal(p.value)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := codec.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding payload into %T: %w", into, err)
	}
	return nil
}

// MarshalJSON encodes the wrapped value.
func (p Payload) MarshalJSON() ([]byte, error) {
	return codec.Marshal(p.value)
}

// UnmarshalJSON decodes into a generic structured value.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return err
	}
	p.value = v
	return nil
}
