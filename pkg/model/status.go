package model

import "fmt"

// Status is the closed set of outcomes the PubSub core reports. It mirrors
// the status codes an OPC UA server would surface, narrowed to the subset
// this core actually returns.
type Status string

const (
	StatusGood                 Status = "Good"
	StatusInvalidArgument      Status = "BadInvalidArgument"
	StatusNotFound             Status = "BadNotFound"
	StatusBrowseNameDuplicated Status = "BadBrowseNameDuplicated"
	StatusOutOfMemory          Status = "BadOutOfMemory"
	StatusInternalError        Status = "BadInternalError"
	StatusConfigurationError   Status = "BadConfigurationError"
	StatusNotSupported         Status = "BadNotSupported"
)

// Error wraps a Status with an optional underlying cause, so callers can
// both switch on the status and retain %w-wrapping back to the root cause.
type Error struct {
	Status Status
	Cause  error
}

// NewError builds an *Error for a status with no further detail.
func NewError(status Status) *Error {
	return &Error{Status: status}
}

// Wrap builds an *Error carrying an underlying cause.
func Wrap(status Status, cause error) *Error {
	return &Error{Status: status, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Status, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err carries the given Status, so callers can write
// errors.Is(err, model.NewError(model.StatusNotFound)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// StatusOf extracts the Status carried by err, StatusGood for a nil err, or
// StatusInternalError for an error that isn't an *Error (a bug elsewhere,
// not a modeled status).
func StatusOf(err error) Status {
	if err == nil {
		return StatusGood
	}
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Status
	}
	return StatusInternalError
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
