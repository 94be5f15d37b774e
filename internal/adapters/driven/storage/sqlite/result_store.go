package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
)

// timeLayout sorts lexicographically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// resultStore implements driven.ResultStore.
type resultStore struct {
	store *Store
}

var _ driven.ResultStore = (*resultStore)(nil)

// Save stores or replaces a record and its line items in one transaction.
func (s *resultStore) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}

	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := rec.Result
	m := r.Meta
	sum := r.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			id, filename, form, sha256, doc_type, number, customer_code, customer_name,
			address_line1, address_line2, contact_person, doc_date, due_date, delivery_date,
			po_reference, sales_person, payment_term, valid_days,
			subtotal, discount, vat_percent, vat_amount, total,
			item_count, success, parser_version, processed_at, created_at, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			form = excluded.form,
			sha256 = excluded.sha256,
			doc_type = excluded.doc_type,
			number = excluded.number,
			customer_code = excluded.customer_code,
			customer_name = excluded.customer_name,
			address_line1 = excluded.address_line1,
			address_line2 = excluded.address_line2,
			contact_person = excluded.contact_person,
			doc_date = excluded.doc_date,
			due_date = excluded.due_date,
			delivery_date = excluded.delivery_date,
			po_reference = excluded.po_reference,
			sales_person = excluded.sales_person,
			payment_term = excluded.payment_term,
			valid_days = excluded.valid_days,
			subtotal = excluded.subtotal,
			discount = excluded.discount,
			vat_percent = excluded.vat_percent,
			vat_amount = excluded.vat_amount,
			total = excluded.total,
			item_count = excluded.item_count,
			success = excluded.success,
			parser_version = excluded.parser_version,
			processed_at = excluded.processed_at,
			created_at = excluded.created_at,
			result_json = excluded.result_json
	`, rec.ID, rec.Filename, string(rec.Form), rec.SHA256, string(m.Type),
		nullString(m.Number), nullString(m.CustomerCode), nullString(m.CustomerName),
		nullString(m.AddressLine1), nullString(m.AddressLine2), nullString(m.ContactPerson),
		nullString(m.Date), nullString(m.DueDate), nullString(m.DeliveryDate),
		nullString(m.POReference), nullString(m.SalesPerson), nullString(m.PaymentTerm), m.ValidDays,
		nullFloat(sum.Subtotal), sum.Discount, nullFloat(sum.VATPercent), nullFloat(sum.VATAmount), nullFloat(sum.Total),
		len(r.Items), boolToInt(r.Success), r.ParserVersion,
		formatTime(r.ProcessedAt), formatTime(rec.CreatedAt), string(resultJSON))
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM line_items WHERE document_id = ?", rec.ID); err != nil {
		return fmt.Errorf("clearing line items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO line_items (
			document_id, line_number, product_code, description, full_description,
			quantity, unit, unit_price, amount, remarks_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing line item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range r.Items {
		remarks, err := remarksJSON(item.Remarks)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, item.LineNumber, nullString(item.ProductCode),
			item.Description, item.FullDescription, item.Quantity, nullString(item.Unit),
			item.UnitPrice, item.Amount, remarks); err != nil {
			return fmt.Errorf("saving line item %d: %w", item.LineNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID. The result is decoded from its stored
// JSON so it round-trips exactly.
func (s *resultStore) Get(ctx context.Context, id string) (*domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, form, sha256, created_at, result_json
		FROM documents WHERE id = ?
	`, id)

	var (
		rec        domain.Record
		form       string
		createdAt  string
		resultJSON string
	)
	if err := row.Scan(&rec.ID, &rec.Filename, &form, &rec.SHA256, &createdAt, &resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("decoding result of %s: %w", id, err)
	}
	rec.Form = domain.Form(form)
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// List returns record summaries, newest first.
func (s *resultStore) List(ctx context.Context, filter domain.RecordFilter) ([]domain.RecordSummary, error) {
	var (
		where []string
		args  []any
	)
	if filter.DocType != "" {
		where = append(where, "doc_type = ?")
		args = append(args, string(filter.DocType))
	}
	if filter.FailedOnly {
		where = append(where, "success = 0")
	}
	if filter.CustomerCode != "" {
		where = append(where, "customer_code = ?")
		args = append(args, filter.CustomerCode)
	}

	query := `
		SELECT id, filename, form, doc_type, number, customer_code, customer_name,
			total, item_count, success, created_at
		FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []domain.RecordSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// Delete removes a record; its line items cascade.
func (s *resultStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Customers rolls records up by customer code, most recently seen first.
// The name is taken from the newest record that carries one.
func (s *resultStore) Customers(ctx context.Context, limit int) ([]domain.CustomerSummary, error) {
	query := `
		SELECT d.customer_code,
			COALESCE((
				SELECT n.customer_name FROM documents n
				WHERE n.customer_code = d.customer_code AND n.customer_name IS NOT NULL
				ORDER BY n.created_at DESC, n.id DESC LIMIT 1
			), '') AS customer_name,
			COUNT(*) AS documents,
			ROUND(COALESCE(SUM(CASE WHEN d.success = 1 THEN d.total END), 0), 2) AS total_value,
			MAX(d.created_at) AS last_seen
		FROM documents d
		WHERE d.customer_code IS NOT NULL
		GROUP BY d.customer_code
		ORDER BY last_seen DESC, d.customer_code`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	out := []domain.CustomerSummary{}
	for rows.Next() {
		var (
			c        domain.CustomerSummary
			lastSeen string
		)
		if err := rows.Scan(&c.Code, &c.Name, &c.Documents, &c.TotalValue, &lastSeen); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		c.LastSeen = parseTime(lastSeen)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}
	return out, nil
}

// Stats aggregates counts and values over all records.
func (s *resultStore) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{ByType: []domain.DocTypeStats{}}

	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT customer_code) FROM documents WHERE customer_code IS NOT NULL",
	).Scan(&stats.Customers)
	if err != nil {
		return nil, fmt.Errorf("counting customers: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT doc_type,
			COUNT(*),
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
			ROUND(COALESCE(SUM(CASE WHEN success = 1 THEN total END), 0), 2)
		FROM documents
		GROUP BY doc_type
		ORDER BY doc_type
	`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var (
			t       domain.DocTypeStats
			docType string
		)
		if err := rows.Scan(&docType, &t.Documents, &t.Failed, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		t.DocType = domain.DocType(docType)
		stats.Documents += t.Documents
		stats.Failed += t.Failed
		total = total.Add(decimal.NewFromFloat(t.TotalValue))
		stats.ByType = append(stats.ByType, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats: %w", err)
	}
	stats.TotalValue = total.InexactFloat64()
	return stats, nil
}

// ==================== Helper Functions ====================

func scanSummary(rows *sql.Rows) (*domain.RecordSummary, error) {
	var (
		sum                      domain.RecordSummary
		form, docType, createdAt string
		number, customer, name   sql.NullString
		total                    sql.NullFloat64
		success                  int
	)
	if err := rows.Scan(&sum.ID, &sum.Filename, &form, &docType, &number, &customer, &name,
		&total, &sum.ItemCount, &success, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning record summary: %w", err)
	}

	sum.Form = domain.Form(form)
	sum.DocType = domain.DocType(docType)
	sum.Number = number.String
	sum.CustomerCode = customer.String
	sum.CustomerName = name.String
	if total.Valid {
		v := total.Float64
		sum.Total = &v
	}
	sum.Success = success == 1
	sum.CreatedAt = parseTime(createdAt)
	return &sum, nil
}

// remarksJSON encodes remarks, storing NULL for none.
func remarksJSON(remarks []string) (any, error) {
	if len(remarks) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(remarks)
	if err != nil {
		return nil, fmt.Errorf("encoding remarks: %w", err)
	}
	return string(data), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString converts empty string to nil for nullable columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// boolToInt converts a boolean to SQLite integer.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
