package domain

import "time"

// Record is a ParseResult stored with its provenance.
type Record struct {
	// ID is a UUID assigned when the record is created.
	ID string `json:"id"`

	// Filename is the base name of the source file.
	Filename string `json:"filename"`

	// Form is the form the engine parsed.
	Form Form `json:"form"`

	// SHA256 is the hex digest of the original bytes.
	SHA256 string `json:"sha256"`

	// Result is the engine output.
	Result ParseResult `json:"result"`

	// CreatedAt is when the record was stored.
	CreatedAt time.Time `json:"created_at"`
}

// RecordSummary is the listing view of a Record.
type RecordSummary struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Form         Form      `json:"form"`
	DocType      DocType   `json:"doc_type"`
	Number       string    `json:"number"`
	CustomerCode string    `json:"customer_code"`
	CustomerName string    `json:"customer_name"`
	Total        *float64  `json:"total"`
	ItemCount    int       `json:"item_count"`
	Success      bool      `json:"success"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summarise builds the listing view for a record.
func (r *Record) Summarise() RecordSummary {
	return RecordSummary{
		ID:           r.ID,
		Filename:     r.Filename,
		Form:         r.Form,
		DocType:      r.Result.Meta.Type,
		Number:       r.Result.Meta.Number,
		CustomerCode: r.Result.Meta.CustomerCode,
		CustomerName: r.Result.Meta.CustomerName,
		Total:        r.Result.Summary.Total,
		ItemCount:    len(r.Result.Items),
		Success:      r.Result.Success,
		CreatedAt:    r.CreatedAt,
	}
}

// RecordFilter narrows List results. Zero values match everything.
type RecordFilter struct {
	DocType      DocType
	FailedOnly   bool
	CustomerCode string
	Limit        int
}

// CustomerSummary rolls up the stored records of one customer code.
type CustomerSummary struct {
	Code string `json:"customer_code"`

	// Name is the most recent non-empty customer name seen for the code.
	Name string `json:"customer_name"`

	Documents int `json:"documents"`

	// TotalValue sums the totals of successful records.
	TotalValue float64 `json:"total_value"`

	LastSeen time.Time `json:"last_seen"`
}

// DocTypeStats counts the stored records of one document type.
type DocTypeStats struct {
	DocType    DocType `json:"doc_type"`
	Documents  int     `json:"documents"`
	Failed     int     `json:"failed"`
	TotalValue float64 `json:"total_value"`
}

// StoreStats aggregates the whole store. Only successful records contribute
// to TotalValue; failed results carry unreliable totals.
type StoreStats struct {
	Documents  int            `json:"documents"`
	Failed     int            `json:"failed"`
	Customers  int            `json:"customers"`
	TotalValue float64        `json:"total_value"`
	ByType     []DocTypeStats `json:"by_type"`
}
