package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
)

func TestIsRejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "validation", err: domain.ErrValidation, want: true},
		{name: "wrapped conflict", err: fmt.Errorf("%w: account is already opened", domain.ErrConflict), want: true},
		{name: "not found", err: fmt.Errorf("loading: %w", domain.ErrNotFound), want: true},
		{name: "unavailable", err: domain.ErrUnavailable, want: false},
		{name: "joined with a rejection", err: errors.Join(errors.New("x"), domain.ErrValidation), want: true},
		{name: "context cancelled", err: context.Canceled, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.IsRejection(tt.err); got != tt.want {
				t.Errorf("IsRejection(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
