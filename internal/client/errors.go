package client

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorServer       ErrorCode = "server"
	ErrorUnavailable  ErrorCode = "unavailable"
)

// APIError is a failed call against the remote API.
type APIError struct {
	Code    ErrorCode
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the API. By the time the
// caller sees this, persisted credentials have already been cleared.
func IsUnauthorized(err error) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.Code == ErrorUnauthorized
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == 401:
		return ErrorUnauthorized
	case status == 404:
		return ErrorNotFound
	case status >= 500:
		return ErrorServer
	default:
		return ErrorInvalid
	}
}
