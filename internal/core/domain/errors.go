package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedForm indicates a document form the engine cannot read.
	ErrUnsupportedForm = errors.New("unsupported document form")

	// ErrNoTokenizer indicates no tokenizer is registered for a form.
	ErrNoTokenizer = errors.New("no tokenizer registered")

	// ErrEncoding indicates none of the configured encodings decoded
	// the input without replacement characters.
	ErrEncoding = errors.New("no encoding decoded the input cleanly")

	// ErrEmptyDocument indicates the input has no content at all.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNotConfigured indicates a collaborator (store, publisher, PDF
	// reader) was not wired.
	ErrNotConfigured = errors.New("not configured")

	// ErrPublish indicates the downstream webhook rejected a delivery.
	ErrPublish = errors.New("publish failed")
)
