package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch means the source header lacks expected columns
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrStorageUnavailable means the persistent store cannot be opened or written
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSourceUnavailable means the source dataset cannot be opened or read
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNotFound is returned for lookups of unknown records
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest means caller-supplied parameters are malformed
	ErrInvalidRequest = errors.New("invalid request")
)

// RowValidationError describes why a single source row was rejected
type RowValidationError struct {
	Row       int    `json:"row"`
	MissionID string `json:"mission_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason"`
	Value     string `json:"value,omitempty"`
}

func (e *RowValidationError) Error() string {
	msg := fmt.Sprintf("row %d", e.Row)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Reason
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	return msg
}

// Row rejection reasons, used as keys of LoadReport.RejectionReasons
const (
	ReasonMalformedRow = "malformed row"
	ReasonMissingField = "missing required field"
	ReasonNotNumeric   = "not a number"
	ReasonNotInteger   = "not an integer"
	ReasonInvalidDate  = "invalid date"
	ReasonBelowMinimum = "below minimum"
	ReasonAboveMaximum = "above maximum"
	ReasonUnknownValue = "unknown value"
	ReasonDuplicateID  = "duplicate mission_id"
)

// FetchErrorKind classifies a failed external fetch
type FetchErrorKind string

const (
	FetchTimeout         FetchErrorKind = "timeout"
	FetchRateLimited     FetchErrorKind = "rate_limited"
	FetchInvalidResponse FetchErrorKind = "invalid_response"
	FetchUnreachable     FetchErrorKind = "unreachable"
)

// FetchError is the only error shape a feed fetcher returns
type FetchError struct {
	Feed Feed
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Feed, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Feed, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed
func (e *FetchError) Retryable() bool {
	return e.Kind != FetchInvalidResponse
}

// NewFetchError builds a classified fetch error
func NewFetchError(feed Feed, kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Feed: feed, Kind: kind, Err: err}
}
