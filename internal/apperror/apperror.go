package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrStorage    = errors.New("storage fault")
	ErrResolution = errors.New("resolution fault")
	ErrService    = errors.New("service fault")
	ErrValidation = errors.New("validation error")
)

type AppError struct {
	Err     error  // sentinel classifying the fault
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StorageFault wraps a load/save failure. Callers log it and degrade
// (empty store on load, unsaved state on save); it never reaches a user.
func StorageFault(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("storage %s failed: %v", op, err),
	}
}

// ResolutionFault wraps a context-lookup failure. Callers fall back to the
// sentinel context rather than surfacing it.
func ResolutionFault(detail string) *AppError {
	return &AppError{
		Err:     ErrResolution,
		Message: fmt.Sprintf("context resolution failed: %s", detail),
	}
}

// ServiceFault wraps any unexpected failure during command processing.
// The command boundary converts it into the generic "temporarily
// unavailable" reply after logging the detail.
func ServiceFault(err error) *AppError {
	return &AppError{
		Err:     ErrService,
		Message: fmt.Sprintf("check-in service fault: %v", err),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
