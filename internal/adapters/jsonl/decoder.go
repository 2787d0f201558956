// Package jsonl reads commands from and writes event messages to JSON Lines
// streams. One input line is one command:
//
//	{"command": "account.open", "metadata": {"tenant": "acme"}, "payload": {"member_id": "m-1"}}
//
// and one output line is one encoded event message envelope.
package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

var (
	// ErrMalformedLine is returned for lines that are not a command object.
	ErrMalformedLine = errors.New("jsonl: malformed line")

	// ErrUnknownCommand is returned for command names with no registration.
	ErrUnknownCommand = errors.New("jsonl: unknown command")

	// ErrLineTooLong is returned for lines over the size bound. The rest of
	// the line is discarded.
	ErrLineTooLong = errors.New("jsonl: line too long")
)

// IsLineError reports whether err concerns a single input line, after which
// Next can be called again for the following line.
func IsLineError(err error) bool {
	return errors.Is(err, ErrMalformedLine) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrLineTooLong)
}

// Commands maps command names to payload decoders.
type Commands struct {
	decoders map[string]func([]byte) (any, error)
}

// NewCommands returns an empty command table.
func NewCommands() *Commands {
	return &Commands{decoders: make(map[string]func([]byte) (any, error))}
}

// Register makes lines named name decode their payload into a C value.
func Register[C any](c *Commands, name string) {
	c.decoders[name] = func(raw []byte) (any, error) {
		var cmd C
		if len(raw) == 0 {
			return cmd, nil
		}
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	}
}

// Names returns the registered command names, sorted.
func (c *Commands) Names() []string {
	return slices.Sorted(maps.Keys(c.decoders))
}

type line struct {
	Command  string              `json:"command"`
	Metadata map[string]any      `json:"metadata"`
	Payload  jsoniter.RawMessage `json:"payload"`
}

// Decoder reads command messages from a JSON Lines stream.
type Decoder struct {
	reader   *bufio.Reader
	buf      []byte
	commands *Commands
	lineNo   int
	done     bool
}

// NewDecoder returns a decoder over r.
func NewDecoder(r io.Reader, commands *Commands) *Decoder {
	return &Decoder{reader: bufio.NewReaderSize(r, 64*1024), commands: commands}
}

// Line returns the number of the line last read.
func (d *Decoder) Line() int { return d.lineNo }

// Next returns the next command message, skipping blank lines. It returns
// io.EOF at the end of input. After a line error (see IsLineError) Next can
// be called again for the following line. A read failure is returned once;
// every later call returns io.EOF.
func (d *Decoder) Next() (message.CommandMessage, error) {
	for !d.done {
		raw, err := d.readLine()
		switch {
		case errors.Is(err, io.EOF):
			d.done = true
			return message.CommandMessage{}, io.EOF
		case errors.Is(err, ErrLineTooLong):
			d.lineNo++
			return message.CommandMessage{}, fmt.Errorf("%w: line %d exceeds %d bytes", ErrLineTooLong, d.lineNo, maxLineBytes)
		case err != nil:
			d.done = true
			return message.CommandMessage{}, fmt.Errorf("jsonl: reading line %d: %w", d.lineNo+1, err)
		}

		d.lineNo++
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		return d.decode(raw)
	}
	return message.CommandMessage{}, io.EOF
}

// readLine returns the next line without its terminator. A line over
// maxLineBytes is read to its end and reported as ErrLineTooLong. A final
// line without a newline is returned before io.EOF.
func (d *Decoder) readLine() ([]byte, error) {
	d.buf = d.buf[:0]
	oversized := false

	for {
		chunk, err := d.reader.ReadSlice('\n')
		if !oversized {
			if len(d.buf)+len(chunk) > maxLineBytes {
				oversized = true
				d.buf = d.buf[:0]
			} else {
				d.buf = append(d.buf, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil:
		case errors.Is(err, io.EOF):
			if !oversized && len(d.buf) == 0 {
				return nil, io.EOF
			}
		default:
			return nil, err
		}

		if oversized {
			return nil, ErrLineTooLong
		}
		return d.buf, nil
	}
}

func (d *Decoder) decode(raw []byte) (message.CommandMessage, error) {
	var l line
	if err := json.Unmarshal(raw, &l); err != nil {
		return message.CommandMessage{}, fmt.Errorf("%w: line %d: %w", ErrMalformedLine, d.lineNo, err)
	}
	if l.Command == "" {
		return message.CommandMessage{}, fmt.Errorf("%w: line %d: missing command", ErrMalformedLine, d.lineNo)
	}

	decode, ok := d.commands.decoders[l.Command]
	if !ok {
		return message.CommandMessage{}, fmt.Errorf("%w: line %d: %q", ErrUnknownCommand, d.lineNo, l.Command)
	}
	payload, err := decode(l.Payload)
	if err != nil {
		return message.CommandMessage{}, fmt.Errorf("%w: line %d: %s payload: %w", ErrMalformedLine, d.lineNo, l.Command, err)
	}

	// The command name and entity are stamped by construction.
	for _, key := range []string{message.CommandNameKey, message.EntityKey, message.EntityIDKey, message.EntityNameKey} {
		delete(l.Metadata, key)
	}

	return message.NewCommandMessage(l.Command, payload).
		WithMetadata(message.MetaDataFrom(l.Metadata)), nil
}
