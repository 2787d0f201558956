package message

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// codec is shared by every JSON method in the package.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedEnvelope is returned when a serialized message lacks its
// identifier.
var ErrMalformedEnvelope = errors.New("malformed message envelope")

// envelope is the wire form of a Message.
type envelope struct {
	Identifier Entity   `json:"identifier"`
	Metadata   MetaData `json:"metadata"`
	Payload    Payload  `json:"payload"`
}

// Encode serializes msg as {"identifier", "metadata", "payload"}.
func Encode(msg Message) ([]byte, error) {
	data, err := codec.Marshal(envelope{
		Identifier: msg.Identifier(),
		Metadata:   msg.Metadata(),
		Payload:    msg.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding message %s: %w", msg.Identifier(), err)
	}
	return data, nil
}

// DecodeEventMessage parses the output of Encode. The payload is decoded into
// generic structured values; use Payload.Decode to recover a typed event.
func DecodeEventMessage(data []byte) (EventMessage, error) {
	var env envelope
	if err := codec.Unmarshal(data, &env); err != nil {
		return EventMessage{}, fmt.Errorf("decoding event message: %w", err)
	}
	if env.Identifier.ID() == "" {
		return EventMessage{}, ErrMalformedEnvelope
	}
	return EventMessage{identifier: env.Identifier, metadata: env.Metadata, payload: env.Payload}, nil
}
