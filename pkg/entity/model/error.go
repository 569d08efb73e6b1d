package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error codes
const (
	// TransportError is returned when the request could not reach the server
	// or the server answered with a non-success response.
	TransportError = "TRANSPORT_ERROR"
	// ResponseShapeError is returned when the server answered but the payload
	// did not match the expected shape.
	ResponseShapeError = "RESPONSE_SHAPE_ERROR"
	// InvalidConfigError is returned when the application is misconfigured.
	InvalidConfigError = "INVALID_CONFIG_ERROR"
)

// Error is the application error carrying a machine readable code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Err
}

func newError(code string, err error) error {
	if err == nil {
		err = errors.New(code)
	}
	return errors.WithStack(&Error{Code: code, Err: err})
}

// NewTransportError returns a TransportError.
func NewTransportError(err error) error {
	return newError(TransportError, err)
}

// NewResponseShapeError returns a ResponseShapeError.
func NewResponseShapeError(err error) error {
	return newError(ResponseShapeError, err)
}

// NewInvalidConfigError returns an InvalidConfigError.
func NewInvalidConfigError(err error) error {
	return newError(InvalidConfigError, err)
}

// ErrorCode returns the code of err, or an empty string when err is not an *Error.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsTransportError reports whether err is a TransportError.
func IsTransportError(err error) bool {
	return ErrorCode(err) == TransportError
}

// IsResponseShapeError reports whether err is a ResponseShapeError.
func IsResponseShapeError(err error) bool {
	return ErrorCode(err) == ResponseShapeError
}

// IsInvalidConfigError reports whether err is an InvalidConfigError.
func IsInvalidConfigError(err error) bool {
	return ErrorCode(err) == InvalidConfigError
}
