package mcp

import (
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Parse runs extraction. Required.
	Parse driving.ParseService

	// Records reads stored records. Optional; without it only
	// parse_document works.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Parse == nil {
		return ErrMissingParseService
	}
	return nil
}
