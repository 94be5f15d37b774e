// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRecords lists stored records.
	ViewRecords ViewType = iota
	// ViewRecord shows one record.
	ViewRecord
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRecords:
		return "records"
	case ViewRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RecordsLoaded carries a listing back to the model.
type RecordsLoaded struct {
	Records []domain.RecordSummary
	Err     error
}

// RecordSelected asks the app to open a record.
type RecordSelected struct {
	ID string
}

// RecordLoaded carries a full record back to the model.
type RecordLoaded struct {
	Record *domain.Record
	Err    error
}

// RecordDeleted reports the outcome of a delete.
type RecordDeleted struct {
	ID  string
	Err error
}

// RecordPublished reports the outcome of a webhook publish.
type RecordPublished struct {
	ID  string
	Err error
}
