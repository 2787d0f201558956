// Package card is the payment-card aggregate. Cards are issued inactive
// against an account, toggled between active and inactive, and blocked for
// good once reported lost.
package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/aggregate"
)

// AggregateName labels card streams, spans, and metrics.
const AggregateName = "card"

// Compile-time interface check.
var _ aggregate.Root[Card, Command, Event, Services] = Card{}

// Errors returned by Handle.
var (
	ErrMissingAccountID = fmt.Errorf("%w: card is missing account id", domain.ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: unknown card type", domain.ErrValidation)
	ErrAlreadyIssued    = fmt.Errorf("%w: card is already issued", domain.ErrConflict)
	ErrNotIssued        = fmt.Errorf("%w: card was never issued", domain.ErrNotFound)
	ErrCardLost         = fmt.Errorf("%w: card was reported lost", domain.ErrConflict)
	ErrNoNumberSource   = fmt.Errorf("%w: no card number source", domain.ErrUnavailable)
	ErrUnknownCommand   = errors.New("unknown card command")
)

// NumberSource hands out card numbers.
type NumberSource interface {
	NextNumber() (string, error)
}

// Services is the read-only dependency bag Handle consults.
type Services struct {
	Numbers NumberSource
}

// IDForAccount returns the id of the primary card issued for accountID.
func IDForAccount(accountID string) string {
	return accountID + ":card"
}

// Card is the card aggregate state. The zero value is an unissued card.
type Card struct {
	ID        string
	AccountID string
	Type      Type
	Number    string
	Status    Status
	version   int
}

// Version implements aggregate.Versioned.
func (c Card) Version() int { return c.version }

// Handle implements aggregate.Decider.
func (c Card) Handle(_ context.Context, cmd Command, svc Services) ([]Event, error) {
	if _, issuing := cmd.(Issue); !issuing {
		switch c.Status {
		case StatusUnissued:
			return nil, fmt.Errorf("%w: %s", ErrNotIssued, cmd.AggregateID())
		case StatusLost:
			if _, ok := cmd.(ReportLost); ok {
				return nil, nil
			}
			return nil, ErrCardLost
		}
	}

	switch cmd := cmd.(type) {
	case Issue:
		return c.issue(cmd, svc)
	case Activate:
		if c.Status == StatusActive {
			return nil, nil
		}
		return []Event{Activated{CardID: c.ID}}, nil
	case Deactivate:
		if c.Status == StatusInactive {
			return nil, nil
		}
		return []Event{Deactivated{CardID: c.ID}}, nil
	case ReportLost:
		return []Event{Lost{CardID: c.ID}}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (c Card) issue(cmd Issue, svc Services) ([]Event, error) {
	if c.Status != StatusUnissued {
		return nil, ErrAlreadyIssued
	}
	if cmd.AccountID == "" {
		return nil, ErrMissingAccountID
	}

	cardType := cmd.Type
	if cardType == "" {
		cardType = TypeGreen
	}
	if !cardType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, cardType)
	}

	if svc.Numbers == nil {
		return nil, ErrNoNumberSource
	}
	number, err := svc.Numbers.NextNumber()
	if err != nil {
		return nil, fmt.Errorf("drawing card number: %w", err)
	}

	id := cmd.CardID
	if id == "" {
		id = uuid.NewString()
	}

	return []Event{Issued{CardID: id, AccountID: cmd.AccountID, Type: cardType, Number: number}}, nil
}

// Apply implements aggregate.Applier.
func (c Card) Apply(evt Event) Card {
	switch e := evt.(type) {
	case Issued:
		c.mustBe(evt, StatusUnissued)
		c.ID = e.CardID
		c.AccountID = e.AccountID
		c.Type = e.Type
		c.Number = e.Number
		c.Status = StatusInactive
	case Activated:
		c.mustBe(evt, StatusInactive)
		c.Status = StatusActive
	case Deactivated:
		c.mustBe(evt, StatusActive)
		c.Status = StatusInactive
	case Lost:
		c.mustBe(evt, StatusInactive, StatusActive)
		c.Status = StatusLost
	default:
		panic(c.corrupt(evt, "unknown event type"))
	}
	c.version++
	return c
}

func (c Card) mustBe(evt Event, allowed ...Status) {
	for _, s := range allowed {
		if c.Status == s {
			return
		}
	}
	panic(c.corrupt(evt, evt.EventName()+" on a card that is "+c.Status.String()))
}

func (c Card) corrupt(evt Event, reason string) *aggregate.CorruptHistoryError {
	return &aggregate.CorruptHistoryError{
		Aggregate: AggregateName + "/" + c.ID,
		Version:   c.version,
		Event:     evt,
		Reason:    reason,
	}
}
