package api

import (
	"errors"

	service "github.com/okian/vstrike/internal/app"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/grading"
)

// classify maps engine errors onto API kinds.
func classify(err error) error {
	switch {
	case service.IsNotFound(err), errors.Is(err, grading.ErrUnknownPick):
		return ErrNotFound
	case errors.Is(err, grading.ErrAlreadyResolved):
		return ErrConflict
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidBankroll),
		errors.Is(err, grading.ErrInvalidResult),
		errors.Is(err, feedback.ErrNotConfirmed),
		errors.Is(err, feedback.ErrUnknownParam):
		return ErrBadRequest
	default:
		return ErrInternal
	}
}
