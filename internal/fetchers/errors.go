package fetchers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure
type ErrorKind int

const (
	// KindTransport covers network failures and non-2xx responses
	KindTransport ErrorKind = iota + 1
	// KindParse covers bodies of the wrong shape and unparsable dates
	KindParse
	// KindBoundary covers the state boundary document
	KindBoundary
	// KindInvalidInput covers requests rejected before any network call
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindBoundary:
		return "boundary"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Operation names used in FetchError.Op
const (
	OpHistory  = "history"
	OpForecast = "forecast"
	OpBoundary = "boundary"
)

// FetchError is returned by every fetch operation
type FetchError struct {
	Kind   ErrorKind
	Op     string
	State  string
	Status int // HTTP status for non-2xx responses, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s fetch", e.Op)
	if e.State != "" {
		msg += fmt.Sprintf(" for %s", e.State)
	}
	msg += fmt.Sprintf(" failed (%s)", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage is the short text shown inline on the dashboard
func (e *FetchError) UserMessage() string {
	what := "data"
	if e.Op == OpForecast {
		what = "predictions"
	}
	switch {
	case e.Kind == KindInvalidInput:
		return e.Err.Error()
	case e.Kind == KindBoundary:
		return fmt.Sprintf("Could not load state boundaries: %v", e.Err)
	case e.Status != 0:
		return fmt.Sprintf("Error fetching %s: %d", what, e.Status)
	default:
		return fmt.Sprintf("Exception in %s fetching: %v", what, e.Err)
	}
}

// IsKind reports whether err wraps a FetchError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// UserMessage returns the dashboard text for any error
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.UserMessage()
	}
	return err.Error()
}
