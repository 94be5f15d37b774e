package delimited

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/logger"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Decode converts data to UTF-8 using the first encoding that yields no
// replacement characters. Valid UTF-8 containing multi-byte text wins over
// every 8-bit encoding, since an 8-bit decode of it never fails but
// produces mojibake.
func Decode(data []byte, encodings []string) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		if utf8.Valid(data) {
			return string(data), "utf-8", nil
		}
	}
	if utf8.Valid(data) && hasMultiByte(data) {
		return string(data), "utf-8", nil
	}

	for _, name := range encodings {
		decoded, ok := decodeWith(name, data)
		if ok {
			return decoded, name, nil
		}
		logger.Debug("delimited: %s decode rejected", name)
	}
	return "", "", fmt.Errorf("tried %s: %w", strings.Join(encodings, ", "), domain.ErrEncoding)
}

func decodeWith(name string, data []byte) (string, bool) {
	if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return string(data), utf8.Valid(data)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		logger.Warn("delimited: unknown encoding %q", name)
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func hasMultiByte(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
