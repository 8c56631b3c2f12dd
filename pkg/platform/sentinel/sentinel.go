package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and outbound clients
// return these (optionally wrapped) so services can translate them into domain
// errors or, for the client card lookup, into an absent result.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store or upstream system
// - ErrExpired: cached record is older than its retention window
// - ErrUnavailable: upstream system or resource temporarily unavailable
// - ErrCircuitOpen: calls are short-circuited after repeated upstream failures
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrCircuitOpen  = errors.New("circuit open")
)
