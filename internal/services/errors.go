package services

import (
	"context"
	"errors"

	"facility_crm_backend/internal/repositories"

	"github.com/google/uuid"
)

// ErrorKind is the failure class a caller branches on. The UI shows
// validation and transient failures inline and redirects only on
// authorization failures.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindAuthorization ErrorKind = "authorization"
	KindTransient     ErrorKind = "transient"
)

// --- Errors shared by every service ---
var (
	ErrInvalidID         = errors.New("invalid identifier")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("insufficient role for this resource")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

var kindsByError = []struct {
	err  error
	kind ErrorKind
}{
	{repositories.ErrNotFound, KindNotFound},
	{ErrClientNotFound, KindNotFound},
	{ErrBookingNotFound, KindNotFound},
	{ErrInvoiceNotFound, KindNotFound},
	{ErrServiceNotFound, KindNotFound},

	{ErrInvalidID, KindValidation},
	{ErrInvalidTransition, KindValidation},
	{ErrInvalidDateRange, KindValidation},
	{ErrClientValidation, KindValidation},
	{ErrDateFormat, KindValidation},
	{ErrBookingValidation, KindValidation},
	{ErrInvalidBookingTime, KindValidation},
	{ErrClientForBookingNotFound, KindValidation},
	{ErrServiceForBookingNotFound, KindValidation},
	{ErrInvoiceValidation, KindValidation},
	{ErrInvoiceTotalMismatch, KindValidation},
	{ErrClientForInvoiceNotFound, KindValidation},
	{ErrBookingForInvoiceNotFound, KindValidation},
	{repositories.ErrForeignKey, KindValidation},

	{ErrEmailExists, KindConflict},
	{repositories.ErrDuplicateKey, KindConflict},

	{ErrUnauthenticated, KindAuthorization},
	{ErrForbidden, KindAuthorization},
	{ErrProfileNotFound, KindAuthorization},

	{context.DeadlineExceeded, KindTransient},
	{context.Canceled, KindTransient},
	{repositories.ErrDatabaseError, KindTransient},
}

// KindOf classifies err. Anything unrecognised is treated as transient.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kindsByError {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindTransient
}

// validateID rejects identifiers that cannot be row keys.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
