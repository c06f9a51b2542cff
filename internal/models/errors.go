package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeConflict    = "CONFLICT_ERROR"
	ErrCodeParse       = "PARSE_ERROR"
	ErrCodeRemote      = "REMOTE_ERROR"
	ErrCodePersistence = "PERSISTENCE_ERROR"
)

// Sentinel errors
var (
	ErrEmptyPair          = errors.New("truck and trailer are both required")
	ErrPairExists         = errors.New("pair already exists")
	ErrNotFound           = errors.New("no stored data")
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrRefreshInProgress  = errors.New("refresh already in progress")
	ErrSubscriptionClosed = errors.New("change subscription closed")
)

// RemoteError represents a failure from the remote table store. Remote
// failures are always soft; callers fall back to the local tier.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// SyncError wraps a failure in a lookup-service operation.
type SyncError struct {
	Code string
	Op   string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s [%s]: %v", e.Op, e.Code, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed yard-sheet import line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
