package jsonl

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Compile-time interface check.
var _ ports.MessageHandler[message.EventMessage] = (*Encoder)(nil)

// Encoder writes one event message envelope per line. It is safe for
// concurrent use.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Handle implements ports.MessageHandler by writing msg.
func (e *Encoder) Handle(_ context.Context, msg message.EventMessage) error {
	data, err := message.Encode(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("jsonl: writing %s: %w", msg.EventName(), err)
	}
	return nil
}
