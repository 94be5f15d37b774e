// Package render formats records for terminal output. The CLI and the
// browser share it so a record looks the same in both.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// Money formats v with two decimals and thousands separators.
func Money(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// OptMoney formats an optional amount, "-" when absent.
func OptMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return Money(*v)
}

// OrDash returns s, or "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// DocLabel names a document type for headings.
func DocLabel(t domain.DocType) string {
	switch t {
	case domain.DocQuotation:
		return "Quotation"
	case domain.DocSalesOrder:
		return "Sales order"
	default:
		return "Document"
	}
}

// Summaries renders record summaries as a bordered table.
func Summaries(rows []domain.RecordSummary, st *styles.Styles) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("ID", "TYPE", "NUMBER", "CUSTOMER", "ITEMS", "TOTAL", "OK", "CREATED")
	for _, r := range rows {
		t.Row(
			r.ID,
			string(r.DocType),
			OrDash(r.Number),
			OrDash(r.CustomerCode),
			fmt.Sprintf("%d", r.ItemCount),
			OptMoney(r.Total),
			yesNo(r.Success),
			r.CreatedAt.Local().Format(time.DateTime),
		)
	}
	return t.Render()
}

// Customers renders customer roll-ups as a bordered table.
func Customers(rows []domain.CustomerSummary, st *styles.Styles) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("CODE", "NAME", "DOCUMENTS", "VALUE", "LAST SEEN")
	for _, c := range rows {
		t.Row(
			c.Code,
			OrDash(c.Name),
			fmt.Sprintf("%d", c.Documents),
			Money(c.TotalValue),
			c.LastSeen.Local().Format(time.DateTime),
		)
	}
	return t.Render()
}

// Stats writes store totals followed by a per-type table.
func Stats(w io.Writer, s *domain.StoreStats, st *styles.Styles) {
	field := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", st.Label.Render(fmt.Sprintf("%-14s", label)), value)
	}
	field("Documents", fmt.Sprintf("%d", s.Documents))
	field("Failed", fmt.Sprintf("%d", s.Failed))
	field("Customers", fmt.Sprintf("%d", s.Customers))
	field("Total value", Money(s.TotalValue))
	if len(s.ByType) == 0 {
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("TYPE", "DOCUMENTS", "FAILED", "VALUE")
	for _, bt := range s.ByType {
		t.Row(DocLabel(bt.DocType), fmt.Sprintf("%d", bt.Documents), fmt.Sprintf("%d", bt.Failed), Money(bt.TotalValue))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Record writes a human-readable view of a record.
func Record(w io.Writer, rec *domain.Record, st *styles.Styles) {
	res := rec.Result
	m := res.Meta

	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("%s %s", DocLabel(m.Type), OrDash(m.Number))))
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("%s  %s  %s", rec.ID, rec.Filename, rec.Form)))
	fmt.Fprintln(w)

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(w, "%s %s\n", st.Label.Render(fmt.Sprintf("%-14s", label)), value)
	}
	field("Customer", strings.TrimSpace(m.CustomerCode+" "+m.CustomerName))
	field("Address", m.AddressLine1)
	field("", m.AddressLine2)
	field("Contact", m.ContactPerson)
	field("Date", m.Date)
	field("Due date", m.DueDate)
	field("Delivery", m.DeliveryDate)
	field("PO reference", m.POReference)
	field("Sales person", m.SalesPerson)
	field("Payment term", m.PaymentTerm)
	if m.ValidDays > 0 {
		field("Valid for", fmt.Sprintf("%d days", m.ValidDays))
	}

	if len(res.Items) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Items(res.Items, st))
	}

	s := res.Summary
	fmt.Fprintln(w)
	field("Subtotal", OptMoney(s.Subtotal))
	if s.Discount != 0 {
		field("Discount", Money(s.Discount))
	}
	if s.VATAmount != nil {
		vat := Money(*s.VATAmount)
		if s.VATPercent != nil {
			vat = fmt.Sprintf("%s (%s%%)", vat, decimal.NewFromFloat(*s.VATPercent).String())
		}
		field("VAT", vat)
	}
	field("Total", OptMoney(s.Total))

	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w)
		for _, d := range res.Diagnostics {
			fmt.Fprintln(w, st.Warning.Render("! "+d.String()))
		}
	}
	if res.Success {
		fmt.Fprintln(w, st.Success.Render("extraction succeeded"))
	} else {
		fmt.Fprintln(w, st.Error.Render("extraction failed"))
	}
}

// Items renders line items as a bordered table.
func Items(items []domain.LineItem, st *styles.Styles) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("#", "CODE", "DESCRIPTION", "QTY", "UNIT", "PRICE", "AMOUNT")
	for _, it := range items {
		t.Row(
			fmt.Sprintf("%d", it.LineNumber),
			OrDash(it.ProductCode),
			it.FullDescription,
			decimal.NewFromFloat(it.Quantity).String(),
			it.Unit,
			Money(it.UnitPrice),
			Money(it.Amount),
		)
	}
	return t.Render()
}

// RecordString returns Record's output as a string.
func RecordString(rec *domain.Record, st *styles.Styles) string {
	var b strings.Builder
	Record(&b, rec, st)
	return b.String()
}
