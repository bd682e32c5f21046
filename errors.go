package gqlxpath

import "errors"

// Common errors used throughout the gqlxpath packages
var (
	// ErrUnknownTypeToken indicates a [type=...] filter named a token that is
	// not registered for any node kind.
	// Registry errors
	ErrUnknownTypeToken = errors.New("unknown type token")

	// ErrNilDocument indicates a traversal or transformation was requested on
	// a nil document.
	// Traversal errors
	ErrNilDocument = errors.New("document is nil")

	// ErrNodeNotFound indicates a well-formed path matched no node in the
	// document.
	// Selection errors
	ErrNodeNotFound = errors.New("node not found")

	// ErrConfigValidation is returned when configuration validation fails.
	// Configuration errors
	ErrConfigValidation = errors.New("configuration validation failed")
)
