// Package normalisers provides the per-form tokenizers of the extraction
// engine. Each tokenizer knows how to clean one export form and split it
// into rows of cells.
//
// Tokenizers are registered with the Registry at startup; the engine
// dispatches on domain.Form.
package normalisers
