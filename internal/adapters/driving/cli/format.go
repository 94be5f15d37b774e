package cli

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// stylesFor returns coloured styles for terminals and plain ones otherwise.
func stylesFor(w io.Writer) *styles.Styles {
	if isTerminal(w) {
		return styles.DefaultStyles()
	}
	return styles.PlainStyles()
}
