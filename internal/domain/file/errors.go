package file

import "errors"

var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrNotFound     = errors.New("Not found")

	ErrMissingName     = &ValidationError{Reason: "Missing name"}
	ErrMissingType     = &ValidationError{Reason: "Missing type"}
	ErrMissingData     = &ValidationError{Reason: "Missing data"}
	ErrInvalidData     = &ValidationError{Reason: "Invalid data"}
	ErrParentNotFound  = &ValidationError{Reason: "Parent not found"}
	ErrParentNotFolder = &ValidationError{Reason: "Parent is not a folder"}
	ErrFolderNoContent = &ValidationError{Reason: "A folder doesn't have content"}
)

// ValidationError is a client error with a short reason meant to be shown as is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
