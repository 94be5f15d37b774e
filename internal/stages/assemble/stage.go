// Package assemble implements the result assembler stage.
package assemble

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
)

// Name is the registry name of the stage.
const Name = "assemble"

// Ensure Stage implements the interface.
var _ driven.Stage = (*Stage)(nil)

// Stage computes stats and the success flag.
type Stage struct{}

// New creates the assembler stage.
func New() *Stage {
	return &Stage{}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return Name
}

// Apply fills ex.Stats and ex.Success. A document with neither a number
// nor an item table header gets a structural anchor diagnostic.
func (s *Stage) Apply(_ context.Context, ex *domain.Extraction) error {
	ex.Stats = Stats(ex.Items, ex.Summary)
	ex.Success = Succeeded(ex.Meta, ex.Items, ex.Summary)

	if ex.Meta.Number == "" && !ex.HasTable() {
		ex.Diagnose(domain.KindStructuralAnchor, Name, "no document number and no item table header")
	}
	return nil
}

// Succeeded is true when the document is identified and carries either a
// positive total or at least one item.
func Succeeded(meta domain.DocumentMeta, items []domain.LineItem, sum domain.FinancialSummary) bool {
	if meta.Number == "" || meta.CustomerCode == "" {
		return false
	}
	return sum.TotalValue() > 0 || len(items) > 0
}

// Stats counts items and remarks and sums item amounts.
func Stats(items []domain.LineItem, sum domain.FinancialSummary) domain.Stats {
	st := domain.Stats{ItemCount: len(items)}

	value := decimal.Zero
	for _, item := range items {
		if item.HasRemarks() {
			st.ItemsWithRemarks++
		}
		st.TotalRemarks += item.RemarkCount()
		value = value.Add(decimal.NewFromFloat(item.Amount))
	}
	st.TotalItemsValue, _ = value.Round(2).Float64()

	if sum.Subtotal != nil {
		net := decimal.NewFromFloat(*sum.Subtotal).Sub(decimal.NewFromFloat(sum.Discount))
		st.NetBeforeVAT, _ = net.Round(2).Float64()
	}
	return st
}
