package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the service replies with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
	// Message is the "error" field of the response body, if any
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
}

// StatusText is the standard reason phrase for the status code
func (e *StatusError) StatusText() string {
	return http.StatusText(e.StatusCode)
}

// NoResponseError is returned when the request was sent but no reply arrived
type NoResponseError struct {
	Endpoint string
	Err      error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("%s: no response: %v", e.Endpoint, e.Err)
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx reply is not the expected JSON
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RequestError is returned when the request could not be built
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage renders err the way the upload page reports it
func UserMessage(err error) string {
	var statusErr *StatusError
	var noResp *NoResponseError
	var reqErr *RequestError
	var decodeErr *DecodeError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server error: %d %s", statusErr.StatusCode, statusErr.StatusText())
	case errors.As(err, &noResp):
		return "No response from server. Is the server running?"
	case errors.As(err, &decodeErr):
		return "Invalid response from server"
	case errors.As(err, &reqErr):
		return "Error: " + reqErr.Err.Error()
	default:
		return "Error: " + err.Error()
	}
}

// Detail returns the server supplied error message, or fallback when the
// error carries none
func Detail(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return fallback
}
