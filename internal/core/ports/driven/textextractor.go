package driven

import "context"

// TextExtractor recovers plain text from a binary document such as a PDF.
// The output keeps one physical line per text row.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
