package store

import "errors"

// Error definitions for common error cases.
var (
	// ErrNotFound returned when a required snapshot or interchange file is absent.
	ErrNotFound = errors.New("file not found")

	// ErrCorruptSnapshot returned when a snapshot file exists but cannot be decoded.
	ErrCorruptSnapshot = errors.New("snapshot corrupt")

	// ErrInvalidJSON returned when an interchange document is not a valid JSON object.
	ErrInvalidJSON = errors.New("invalid JSON document")

	// ErrNotSerializable returned when a value falls outside the serializable type universe.
	ErrNotSerializable = errors.New("value not serializable")

	// ErrSubkeyNotText returned when a subkey search reaches a subkey whose value is not a string.
	ErrSubkeyNotText = errors.New("subkey value is not text")
)
