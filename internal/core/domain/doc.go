// Package domain defines the core business entities for erpdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawInput: bytes handed to the engine with a form tag
//   - Row and Cell: the tokenized view of a document
//   - DocumentMeta, LineItem, FinancialSummary: extracted content
//   - ParseResult: the canonical engine output
//   - Record: a stored ParseResult with provenance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
