// Package apierr provides the closed set of classified errors returned by the
// request pipeline.
package apierr

import (
	"errors"
	"fmt"
)

// Kind represents the category of a pipeline failure.
type Kind string

const (
	// KindExpiredToken indicates the authentication token is no longer valid.
	KindExpiredToken Kind = "expired_token"

	// KindResponseDecode indicates a success-range body could not be decoded.
	KindResponseDecode Kind = "response_decode"

	// KindResponseStatus indicates a status code outside the success range.
	KindResponseStatus Kind = "response_status"

	// KindUnknown indicates no usable status code or an unclassified case.
	KindUnknown Kind = "unknown"

	// KindTransport indicates the network exchange could not complete.
	KindTransport Kind = "transport"
)

// MessageUnableToConnect is the normalized message for connectivity failures.
const MessageUnableToConnect = "Unable to connect to the server"

const messageExpiredToken = "Access token is expired"

// Sentinels for errors.Is matching by kind.
var (
	ErrExpiredToken   = &Error{Kind: KindExpiredToken}
	ErrResponseDecode = &Error{Kind: KindResponseDecode}
	ErrResponseStatus = &Error{Kind: KindResponseStatus}
	ErrUnknown        = &Error{Kind: KindUnknown}
	ErrTransport      = &Error{Kind: KindTransport}
)

// Error is a classified pipeline failure. Exactly one is produced per failed
// call.
type Error struct {
	// Kind is the category of failure
	Kind Kind

	// StatusCode is the HTTP status when one was obtained, zero otherwise
	StatusCode int

	// Message is the user-facing description
	Message string

	// Cause is the underlying failure (decode or transport), if any
	Cause error
}

// Error implements the error interface and returns the user-facing description.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindExpiredToken:
		return messageExpiredToken
	case KindResponseDecode, KindTransport:
		if e.Cause != nil {
			return e.Cause.Error()
		}
	case KindUnknown:
		return unknownMessage(e.StatusCode)
	case KindResponseStatus:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return string(e.Kind)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error of the same kind, so the package sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// HasStatus reports whether a status code was obtained.
func (e *Error) HasStatus() bool {
	return e != nil && e.StatusCode > 0
}

// ExpiredToken creates an expired token error. cause may be nil.
func ExpiredToken(cause error) *Error {
	return &Error{Kind: KindExpiredToken, Message: messageExpiredToken, Cause: cause}
}

// ResponseDecodeFailure wraps a decode failure of a success-range body.
func ResponseDecodeFailure(cause error) *Error {
	return &Error{Kind: KindResponseDecode, Cause: cause}
}

// ResponseStatusFailure creates a status failure with a derived message.
func ResponseStatusFailure(statusCode int, message string) *Error {
	return &Error{Kind: KindResponseStatus, StatusCode: statusCode, Message: message}
}

// UnknownFailure creates an unclassified failure. A zero statusCode means
// none was obtainable.
func UnknownFailure(statusCode int) *Error {
	return &Error{Kind: KindUnknown, StatusCode: statusCode, Message: unknownMessage(statusCode)}
}

// EncodingFailure reports a request that could not be encoded, so no
// exchange was attempted. It is unclassified and keeps the cause.
func EncodingFailure(cause error) *Error {
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf("unable to encode request: %v", cause), Cause: cause}
}

// TransportFailure wraps a transport-layer failure, keeping the cause's own
// text as the message.
func TransportFailure(cause error) *Error {
	return &Error{Kind: KindTransport, Cause: cause}
}

func unknownMessage(statusCode int) string {
	if statusCode > 0 {
		return fmt.Sprintf("unknown error (status %d)", statusCode)
	}
	return "unknown error (no status code)"
}

// As returns err as an *Error if it is one or wraps one.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or the empty kind if err is not classified.
func KindOf(err error) Kind {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return ""
}

// StatusCode returns the status carried by err, or zero.
func StatusCode(err error) int {
	if apiErr, ok := As(err); ok {
		return apiErr.StatusCode
	}
	return 0
}
