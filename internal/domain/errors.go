package domain

import "errors"

// Domain errors.
var (
	// ErrAccountNotFound is returned when a username has no archive entry.
	ErrAccountNotFound = errors.New("account not found in archive")

	// ErrSessionNotFound is returned when a session ID is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoConversation is returned when two accounts have never interacted
	// in the archived set. Callers render this as an explicit empty state,
	// distinct from a still-loading transcript.
	ErrNoConversation = errors.New("no conversation found between accounts")

	// ErrReportNotReady is returned while a background report generation is
	// still in flight.
	ErrReportNotReady = errors.New("report generation in progress")

	// ErrInvalidMetric is returned for a ranking metric outside
	// favorite_count/retweet_count.
	ErrInvalidMetric = errors.New("invalid ranking metric")
)
