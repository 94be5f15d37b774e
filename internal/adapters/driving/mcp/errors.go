// Package mcp provides an MCP (Model Context Protocol) server adapter for
// erpdoc. It lets assistants and automation agents parse ERP documents and
// read stored records.
package mcp

import (
	"errors"
	"fmt"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// ErrMissingParseService is returned when the parse service is not provided.
var ErrMissingParseService = errors.New("mcp: parse service is required")

// toolError turns a service error into the message shown to the client.
// The domain sentinel stays in the chain.
func toolError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: record not found: %w", op, err)
	case errors.Is(err, domain.ErrUnsupportedForm):
		return fmt.Errorf("%s: form not recognised, pass form=markup|delimited|plain-text: %w", op, err)
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("%s: invalid input: %w", op, err)
	case errors.Is(err, domain.ErrNotConfigured):
		return fmt.Errorf("%s: not available on this server: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
