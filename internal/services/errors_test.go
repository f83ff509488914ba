package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"facility_crm_backend/internal/repositories"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrBookingNotFound, KindNotFound},
		{fmt.Errorf("wrapped: %w", repositories.ErrNotFound), KindNotFound},
		{fmt.Errorf("%w: x", ErrInvalidTransition), KindValidation},
		{ErrEmailExists, KindConflict},
		{ErrForbidden, KindAuthorization},
		{ErrProfileNotFound, KindAuthorization},
		{context.DeadlineExceeded, KindTransient},
		{fmt.Errorf("failed: %w", repositories.ErrDatabaseError), KindTransient},
		{errors.New("something odd"), KindTransient},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
