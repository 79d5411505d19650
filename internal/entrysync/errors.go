package entrysync

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBloodPressure is returned when a reading does not look like 120/80
	ErrInvalidBloodPressure = errors.New("blood pressure must be 2-3 digits, a slash, and 2-3 digits")
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	// ErrMissingToken is returned when no anti-forgery token is configured
	ErrMissingToken = errors.New("anti-forgery token not configured")
)

// ValidationError is a local input failure. No request is sent when one is returned.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Op names the request that failed
type Op string

const (
	OpFetch Op = "fetch"
	OpSave  Op = "save"
	OpPing  Op = "ping"
)

// Kind classifies a network failure
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
	KindAuth      Kind = "auth"
)

// NetworkError is a failed exchange with the server: transport errors,
// non-2xx statuses, bodies that cannot be decoded, and missing credentials.
type NetworkError struct {
	Op         Op
	Kind       Kind
	Date       string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	target := string(e.Op)
	if e.Date != "" {
		target = fmt.Sprintf("%s entry %s", e.Op, e.Date)
	}
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: server returned status %d", target, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", target, e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
