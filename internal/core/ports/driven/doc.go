// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Tokenizer: Turns one document form into rows
//   - TokenizerRegistry: Selects the tokenizer for a form
//   - Stage: One step of the extraction pipeline
//   - ResultStore: Record persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextExtractor: Recovers text from PDFs. Without it, PDF files are rejected.
//   - Publisher: Delivers records to a webhook. Without it, publishing fails with ErrNotConfigured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
