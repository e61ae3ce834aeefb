package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrDuplicate indicates the book is already in the library
	ErrDuplicate = errors.New("book is already in the library")

	// ErrEntryNotFound indicates no library entry has the requested ID
	ErrEntryNotFound = errors.New("library entry not found")

	// ErrMalformedState indicates the persisted library could not be decoded
	ErrMalformedState = errors.New("persisted library is malformed")

	// ErrUnavailable indicates a remote provider is unreachable or returned an error status
	ErrUnavailable = errors.New("book provider is unavailable")

	// ErrMissingAPIKey indicates a provider credential was not configured
	ErrMissingAPIKey = errors.New("provider API key is not configured")
)
