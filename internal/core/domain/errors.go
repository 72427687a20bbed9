package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLocation indicates a location string has too few segments.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUnsupportedType indicates an unknown reader or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidDocument indicates a structured document failed validation.
	ErrInvalidDocument = errors.New("invalid structured document")

	// ErrExtractionUnavailable indicates no extraction service is configured.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")

	// ErrNoContent indicates extraction produced no text.
	ErrNoContent = errors.New("no content extracted")

	// Authentication Errors.

	// ErrAuthRequired indicates the reader requires authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Reader Errors.

	// ErrReaderValidation indicates reader validation failed.
	ErrReaderValidation = errors.New("reader validation failed")

	// ErrReaderClosed indicates the reader has been closed.
	ErrReaderClosed = errors.New("reader closed")
)
