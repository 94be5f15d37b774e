// Package tui provides the interactive record browser.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser calls.
type Ports struct {
	// Records lists, loads, deletes and publishes stored records.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
