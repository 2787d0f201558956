// Package account is the reference bank-account aggregate: members open
// checking or savings accounts and close them again.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/aggregate"
)

// AggregateName labels account streams, spans, and metrics.
const AggregateName = "account"

// Compile-time interface check.
var _ aggregate.Root[Account, Command, Event, Services] = Account{}

// Errors returned by Handle.
var (
	ErrMissingMemberID = fmt.Errorf("%w: account is missing member id", domain.ErrValidation)
	ErrInvalidType     = fmt.Errorf("%w: unknown account type", domain.ErrValidation)
	ErrUnknownMember   = fmt.Errorf("%w: member does not exist", domain.ErrNotFound)
	ErrAlreadyOpened   = fmt.Errorf("%w: account is already opened", domain.ErrConflict)
	ErrNotOpened       = fmt.Errorf("%w: account was never opened", domain.ErrNotFound)
	ErrUnknownCommand  = errors.New("unknown account command")
)

// MemberDirectory validates member ids against an external system.
type MemberDirectory interface {
	MemberExists(ctx context.Context, memberID string) (bool, error)
}

// Services is the read-only dependency bag Handle consults. A nil Members
// directory skips the member lookup.
type Services struct {
	Members MemberDirectory
}

// Account is the account aggregate state. The zero value is an account that
// was never opened, at version 0.
type Account struct {
	ID       string
	Type     Type
	MemberID string
	Status   Status
	version  int
}

// Version implements aggregate.Versioned.
func (a Account) Version() int { return a.version }

// Handle implements aggregate.Decider.
func (a Account) Handle(ctx context.Context, cmd Command, svc Services) ([]Event, error) {
	switch c := cmd.(type) {
	case Open:
		return a.open(ctx, c, svc)
	case Close:
		return a.close(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (a Account) open(ctx context.Context, cmd Open, svc Services) ([]Event, error) {
	if strings.TrimSpace(cmd.MemberID) == "" {
		return nil, ErrMissingMemberID
	}
	if a.Status != StatusUnopened {
		return nil, ErrAlreadyOpened
	}

	accountType := cmd.Type
	if accountType == "" {
		accountType = TypeChecking
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, accountType)
	}

	if svc.Members != nil {
		exists, err := svc.Members.MemberExists(ctx, cmd.MemberID)
		if err != nil {
			return nil, fmt.Errorf("checking member %s: %w", cmd.MemberID, err)
		}
		if !exists {
			return nil, ErrUnknownMember
		}
	}

	id := cmd.AccountID
	if id == "" {
		id = uuid.NewString()
	}

	return []Event{Opened{AccountID: id, MemberID: cmd.MemberID, Type: accountType}}, nil
}

func (a Account) close(cmd Close) ([]Event, error) {
	switch a.Status {
	case StatusOpen:
		return []Event{Closed{AccountID: a.ID}}, nil
	case StatusClosed:
		// Already closed: nothing to decide.
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotOpened, cmd.AccountID)
	}
}

// Apply implements aggregate.Applier.
func (a Account) Apply(evt Event) Account {
	switch e := evt.(type) {
	case Opened:
		if a.Status != StatusUnopened {
			panic(a.corrupt(evt, "opened event on an account that is "+a.Status.String()))
		}
		a.ID = e.AccountID
		a.MemberID = e.MemberID
		a.Type = e.Type
		a.Status = StatusOpen
	case Closed:
		if a.Status != StatusOpen {
			panic(a.corrupt(evt, "closed event on an account that is "+a.Status.String()))
		}
		a.Status = StatusClosed
	default:
		panic(a.corrupt(evt, "unknown event type"))
	}
	a.version++
	return a
}

func (a Account) corrupt(evt Event, reason string) *aggregate.CorruptHistoryError {
	return &aggregate.CorruptHistoryError{
		Aggregate: AggregateName + "/" + a.ID,
		Version:   a.version,
		Event:     evt,
		Reason:    reason,
	}
}
