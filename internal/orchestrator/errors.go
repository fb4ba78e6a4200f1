package orchestrator

import (
	"errors"
	"fmt"
)

// User-facing messages.
const (
	ValidationMessage = "Please select a pitcher and a batter."
	NetworkMessage    = "An error occurred while fetching data. Please try again."
)

// ErrStaleGeneration is returned when a newer analysis was started before
// this one could commit.
var ErrStaleGeneration = errors.New("analysis superseded by a newer request")

// ValidationError rejects input before any request is issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError is a transport failure or non-2xx response from the feed.
// Message is always the generic network message; the cause is kept for logs.
type NetworkError struct {
	Message    string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string { return e.Message }

func (e *NetworkError) Unwrap() error { return e.Err }

// Detail describes the underlying failure for logs.
func (e *NetworkError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
}

// PayloadError is an error envelope or a payload that failed its schema.
type PayloadError struct {
	Message  string
	Endpoint string
	Err      error
}

func (e *PayloadError) Error() string { return e.Message }

func (e *PayloadError) Unwrap() error { return e.Err }

// UserMessage returns the banner text for err.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		ne *NetworkError
		pe *PayloadError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ne):
		return ne.Message
	case errors.As(err, &pe):
		return pe.Message
	default:
		return err.Error()
	}
}
