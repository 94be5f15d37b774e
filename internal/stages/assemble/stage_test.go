package assemble

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

func f(v float64) *float64 {
	return &v
}

func TestSucceeded(t *testing.T) {
	identified := domain.DocumentMeta{Type: domain.DocQuotation, Number: "QT6800001", CustomerCode: "CU001"}
	items := []domain.LineItem{{LineNumber: 1, Amount: 10}}

	tests := []struct {
		name  string
		meta  domain.DocumentMeta
		items []domain.LineItem
		sum   domain.FinancialSummary
		want  bool
	}{
		{"items only", identified, items, domain.FinancialSummary{}, true},
		{"total only", identified, nil, domain.FinancialSummary{Total: f(100)}, true},
		{"zero total no items", identified, nil, domain.FinancialSummary{Total: f(0)}, false},
		{"no number", domain.DocumentMeta{CustomerCode: "CU001"}, items, domain.FinancialSummary{}, false},
		{"no customer", domain.DocumentMeta{Number: "QT6800001"}, items, domain.FinancialSummary{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Succeeded(tt.meta, tt.items, tt.sum))
		})
	}
}

func TestStats(t *testing.T) {
	items := []domain.LineItem{
		{Amount: 240, Remarks: []string{"สีขาว", "100 เส้น"}},
		{Amount: 0.1},
		{Amount: 0.2, Remarks: []string{"ยี่ห้อ A"}},
	}
	sum := domain.FinancialSummary{Subtotal: f(240.3), Discount: 40.1}

	st := Stats(items, sum)

	assert.Equal(t, domain.Stats{
		ItemCount:        3,
		ItemsWithRemarks: 2,
		TotalRemarks:     3,
		TotalItemsValue:  240.3,
		NetBeforeVAT:     200.2,
	}, st)
}

func TestStage_Apply(t *testing.T) {
	t.Run("anchored", func(t *testing.T) {
		ex := domain.NewExtraction(domain.FormMarkup, nil, domain.DefaultEngineConfig())
		ex.Meta.Number = "QT6800001"
		ex.Meta.CustomerCode = "CU001"
		ex.Items = []domain.LineItem{{LineNumber: 1, Amount: 240}}

		require.NoError(t, New().Apply(context.Background(), ex))

		assert.True(t, ex.Success)
		assert.Equal(t, 1, ex.Stats.ItemCount)
		assert.Empty(t, ex.Diagnostics)
	})

	t.Run("no anchor", func(t *testing.T) {
		ex := domain.NewExtraction(domain.FormPlainText, nil, domain.DefaultEngineConfig())

		require.NoError(t, New().Apply(context.Background(), ex))

		assert.False(t, ex.Success)
		require.Len(t, ex.Diagnostics, 1)
		assert.Equal(t, domain.KindStructuralAnchor, ex.Diagnostics[0].Kind)
	})

	t.Run("header without number", func(t *testing.T) {
		ex := domain.NewExtraction(domain.FormPlainText, nil, domain.DefaultEngineConfig())
		ex.HeaderRow = 0

		require.NoError(t, New().Apply(context.Background(), ex))

		assert.Empty(t, ex.Diagnostics)
	})
}
