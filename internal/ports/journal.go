package ports

import "context"

// EventJournal is the event-store collaborator. The core only consumes
// ordered histories from it and hands it new events to append.
type EventJournal[E any] interface {
	// Load returns the stream's events in original append order, without
	// gaps, together with the stream's current version (its event count).
	// An unknown stream yields an empty history and version 0.
	Load(ctx context.Context, streamID string) ([]E, int, error)

	// Append adds events atomically, provided the stream is still at
	// expectedVersion. Returns an error wrapping domain.ErrConflict otherwise.
	Append(ctx context.Context, streamID string, expectedVersion int, events []E) error
}
