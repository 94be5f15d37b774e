// Package markup provides a Tokenizer for the spreadsheet XML export.
// It reads Row and Cell elements with pattern matching rather than a full
// XML decoder, so truncated or loosely formed exports still yield rows.
// Explicit ss:Index attributes are honored and skipped columns are filled
// with empty cells so that column positions stay meaningful.
package markup
