package spots

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no spot exists for the requested id.
var ErrNotFound = errors.New("spot not found")

// InvalidInputError is returned for missing or malformed request fields. Its
// reason is safe to surface to the caller verbatim.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func invalidInput(reason string) error {
	return &InvalidInputError{Reason: reason}
}

// UploadError is returned when persisting an image blob fails during create.
// The spot row is never committed when this is returned.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading image %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
