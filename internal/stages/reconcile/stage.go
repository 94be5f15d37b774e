// Package reconcile implements the financial reconciler stage.
//
// Summary values are read from rows below the item table, each taken from
// the number nearest its label on the same row. Missing values are derived
// in a fixed order: subtotal from items, VAT rate from the VAT amount, total
// from subtotal - discount + VAT, and finally, when nothing else is known,
// the largest money-shaped amount in the document.
package reconcile

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/logger"
	"github.com/pktechnic/erpdoc/internal/stages/lexicon"
)

// Name is the registry name of the stage.
const Name = "reconcile"

// Ensure Stage implements the interface.
var _ driven.Stage = (*Stage)(nil)

// Option configures the stage.
type Option func(*Stage)

// WithUnlabeledFallback enables or disables the largest-amount total
// fallback.
func WithUnlabeledFallback(enabled bool) Option {
	return func(s *Stage) {
		s.unlabeledFallback = enabled
	}
}

// Stage fills FinancialSummary.
type Stage struct {
	unlabeledFallback bool
}

// New creates the reconciler stage.
func New(opts ...Option) *Stage {
	s := &Stage{unlabeledFallback: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return Name
}

type totalCandidate struct {
	value    float64
	priority int
	row      int
}

// found collects directly labelled values.
type found struct {
	subtotal   *float64
	discount   *float64
	vatPercent *float64
	vatAmount  *float64
	totals     []totalCandidate
}

// Apply reads and derives the financial summary.
func (s *Stage) Apply(_ context.Context, ex *domain.Extraction) error {
	f := scan(ex)
	sum := domain.FinancialSummary{
		Subtotal:   f.subtotal,
		VATPercent: f.vatPercent,
		VATAmount:  f.vatAmount,
	}
	if f.discount != nil {
		sum.Discount = *f.discount
	}

	if sum.Subtotal == nil && len(ex.Items) > 0 {
		total := decimal.Zero
		for _, item := range ex.Items {
			total = total.Add(decimal.NewFromFloat(item.Amount))
		}
		sum.Subtotal = ptr(round2(total))
		sum.SubtotalDerived = true
	}

	if sum.Subtotal != nil && *sum.Subtotal > 0 && sum.Discount == *sum.Subtotal {
		ex.Diagnose(domain.KindMismatch, Name, "discount %.2f equals subtotal, reset to 0", sum.Discount)
		sum.Discount = 0
	}

	resolveVAT(ex, &sum)

	if best, ok := bestTotal(f.totals); ok {
		sum.Total = ptr(best.value)
		logger.Debug("reconcile: total %.2f from row %d (priority %d)", best.value, best.row, best.priority)
	} else if sum.Subtotal != nil {
		t := decimal.NewFromFloat(*sum.Subtotal).Sub(decimal.NewFromFloat(sum.Discount))
		if sum.VATAmount != nil {
			t = t.Add(decimal.NewFromFloat(*sum.VATAmount))
		}
		sum.Total = ptr(round2(t))
		sum.TotalDerived = true
	} else if s.unlabeledFallback {
		if v, ok := largestUnlabeled(ex); ok {
			sum.Total = ptr(v)
			logger.Debug("reconcile: total %.2f from unlabeled fallback", v)
		}
	}

	checkConsistency(ex, sum)
	ex.Summary = sum
	return nil
}

// scanStart is the first row that may hold summary labels.
func scanStart(ex *domain.Extraction) int {
	switch {
	case ex.TableEnd != domain.NoRow:
		return ex.TableEnd
	case ex.HasTable():
		return ex.HeaderRow + 1
	default:
		return 0
	}
}

func scan(ex *domain.Extraction) found {
	var f found
	for _, row := range ex.Rows[scanStart(ex):] {
		text := row.Text()
		nums := lexicon.Numbers(text)
		if len(nums) == 0 {
			continue
		}

		if sp, prio, ok := totalLabel(text); ok {
			if n, ok := lexicon.Nearest(nums, sp.start, sp.end, false); ok {
				f.totals = append(f.totals, totalCandidate{value: n.Value, priority: prio, row: row.Index})
			}
			continue
		}
		if vatLabel(text) {
			if f.vatAmount == nil {
				readVAT(&f, nums)
			}
			continue
		}
		if sp, ok := discountLabel(text); ok {
			if n, ok := lexicon.Nearest(nums, sp.start, sp.end, false); ok && f.discount == nil {
				f.discount = ptr(n.Value)
			}
			continue
		}
		if sp, ok := subtotalLabel(row, text); ok {
			if n, ok := lexicon.Nearest(nums, sp.start, sp.end, false); ok && f.subtotal == nil {
				f.subtotal = ptr(n.Value)
			}
			continue
		}
		if m := bahtText.FindStringSubmatch(text); m != nil {
			if v, ok := lexicon.ParseNumber(m[1]); ok {
				f.totals = append(f.totals, totalCandidate{value: v, priority: priorityBahtText, row: row.Index})
			}
		}
	}
	return f
}

// readVAT takes the first percentage on the row as the rate and the
// largest other number as the amount. A rate without an amount is ignored.
func readVAT(f *found, nums []lexicon.Number) {
	var (
		percent *float64
		amount  *float64
	)
	for _, n := range nums {
		switch {
		case n.Percent:
			if percent == nil {
				percent = ptr(n.Value)
			}
		case amount == nil || n.Value > *amount:
			amount = ptr(n.Value)
		}
	}
	if amount == nil {
		return
	}
	f.vatAmount = amount
	f.vatPercent = percent
}

// resolveVAT keeps rate and amount paired. A missing rate is derived from
// the net amount when possible, otherwise the amount is dropped.
func resolveVAT(ex *domain.Extraction, sum *domain.FinancialSummary) {
	if sum.VATAmount == nil || sum.VATPercent != nil {
		return
	}
	if sum.Subtotal != nil {
		net := decimal.NewFromFloat(*sum.Subtotal).Sub(decimal.NewFromFloat(sum.Discount))
		if net.IsPositive() {
			rate := decimal.NewFromFloat(*sum.VATAmount).Mul(decimal.NewFromInt(100)).Div(net)
			sum.VATPercent = ptr(round2(rate))
			return
		}
	}
	ex.Diagnose(domain.KindPartial, Name, "VAT amount %.2f without rate or net amount, dropped", *sum.VATAmount)
	sum.VATAmount = nil
}

// bestTotal ranks candidates by label priority, then magnitude.
func bestTotal(cands []totalCandidate) (totalCandidate, bool) {
	if len(cands) == 0 {
		return totalCandidate{}, false
	}
	sorted := make([]totalCandidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].priority != sorted[j].priority {
			return sorted[i].priority < sorted[j].priority
		}
		return sorted[i].value > sorted[j].value
	})
	return sorted[0], true
}

// largestUnlabeled returns the largest money-shaped amount anywhere in the
// document above the configured minimum.
func largestUnlabeled(ex *domain.Extraction) (float64, bool) {
	best, ok := 0.0, false
	for _, row := range ex.Rows {
		for _, n := range lexicon.Numbers(row.Text()) {
			if n.Percent || n.Negative || !moneyShape.MatchString(n.Text) || n.Value <= ex.Config.FallbackMinAmount {
				continue
			}
			if !ok || n.Value > best {
				best, ok = n.Value, true
			}
		}
	}
	return best, ok
}

// checkConsistency records a mismatch when directly read subtotal, VAT and
// total disagree by more than the configured tolerance.
func checkConsistency(ex *domain.Extraction, sum domain.FinancialSummary) {
	if sum.Subtotal == nil || sum.VATAmount == nil || sum.Total == nil {
		return
	}
	if sum.SubtotalDerived || sum.TotalDerived {
		return
	}
	expected := *sum.Subtotal - sum.Discount + *sum.VATAmount
	if diff := math.Abs(expected - *sum.Total); diff > ex.Config.MismatchTolerance {
		ex.Diagnose(domain.KindMismatch, Name,
			"subtotal %.2f - discount %.2f + VAT %.2f = %.2f, total reads %.2f",
			*sum.Subtotal, sum.Discount, *sum.VATAmount, expected, *sum.Total)
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func ptr(v float64) *float64 {
	return &v
}
