package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

func lines(ls ...string) *domain.Extraction {
	rows := make([]domain.Row, len(ls))
	for i, l := range ls {
		rows[i] = domain.StringRow(i, l)
	}
	return domain.NewExtraction(domain.FormPlainText, rows, domain.DefaultEngineConfig())
}

func apply(t *testing.T, ex *domain.Extraction, opts ...Option) domain.FinancialSummary {
	t.Helper()
	require.NoError(t, New(opts...).Apply(context.Background(), ex))
	return ex.Summary
}

func kinds(ex *domain.Extraction) []domain.DiagnosticKind {
	var out []domain.DiagnosticKind
	for _, d := range ex.Diagnostics {
		out = append(out, d.Kind)
	}
	return out
}

func TestReconcile_TotalDerivedFromParts(t *testing.T) {
	ex := lines(
		"รวมเป็นเงิน 5,000.00",
		"ภาษีมูลค่าเพิ่ม 7% 350.00",
	)

	sum := apply(t, ex)

	require.NotNil(t, sum.Subtotal)
	assert.Equal(t, 5000.0, *sum.Subtotal)
	assert.False(t, sum.SubtotalDerived)
	assert.Equal(t, 0.0, sum.Discount)
	require.NotNil(t, sum.VATPercent)
	assert.Equal(t, 7.0, *sum.VATPercent)
	require.NotNil(t, sum.VATAmount)
	assert.Equal(t, 350.0, *sum.VATAmount)
	require.NotNil(t, sum.Total)
	assert.Equal(t, 5350.0, *sum.Total)
	assert.True(t, sum.TotalDerived)
	assert.Empty(t, ex.Diagnostics)
}

func TestReconcile_LabeledTotalBeatsUnlabeled(t *testing.T) {
	ex := lines(
		"ค่าขนส่ง 45.00",
		"มัดจำ 12.50",
		"สำรองจ่าย 9,999.99",
		"5,596.10 จำนวนเงินรวมทั้งสิ้น",
		"อ้างอิง 88.88",
	)

	sum := apply(t, ex)

	require.NotNil(t, sum.Total)
	assert.Equal(t, 5596.10, *sum.Total)
	assert.False(t, sum.TotalDerived)
}

func TestReconcile_TotalRanking(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  float64
	}{
		{
			"most specific label wins",
			[]string{"รวมทั้งสิ้น 100.00", "จำนวนเงินรวมทั้งสิ้น 90.00"},
			90,
		},
		{
			"thai label beats english",
			[]string{"Grand Total 500.00", "รวมทั้งสิ้น 450.00"},
			450,
		},
		{
			"same label ranks by magnitude",
			[]string{"รวมทั้งสิ้น 100.00", "รวมทั้งสิ้น 200.00"},
			200,
		},
		{
			"baht text",
			[]string{"ค่าบริการ 9,000.00", "5,350.00 (ห้าพันสามร้อยห้าสิบบาทถ้วน)"},
			5350,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := apply(t, lines(tt.lines...))
			require.NotNil(t, sum.Total)
			assert.Equal(t, tt.want, *sum.Total)
		})
	}
}

func TestReconcile_SubtotalDerivedFromItems(t *testing.T) {
	rows := []domain.Row{
		domain.StringRow(0, "รหัสสินค้า", "รายละเอียด", "จำนวน", "ราคา"),
		domain.StringRow(1, "A001", "Cable tie", "3.0", "80.00", "240.00"),
		domain.StringRow(2, "รวมเป็นเงิน"),
	}
	ex := domain.NewExtraction(domain.FormMarkup, rows, domain.DefaultEngineConfig())
	ex.HeaderRow, ex.TableEnd = 0, 2
	ex.Items = []domain.LineItem{
		{LineNumber: 1, ProductCode: "A001", Description: "Cable tie", Quantity: 3, UnitPrice: 80, Amount: 240},
	}

	sum := apply(t, ex)

	require.NotNil(t, sum.Subtotal)
	assert.Equal(t, 240.0, *sum.Subtotal)
	assert.True(t, sum.SubtotalDerived)
	require.NotNil(t, sum.Total)
	assert.Equal(t, 240.0, *sum.Total)
	assert.True(t, sum.TotalDerived)
	assert.Nil(t, sum.VATAmount)
}

func TestReconcile_SubtotalSumIsExact(t *testing.T) {
	ex := lines("no summary here")
	ex.Items = []domain.LineItem{{Amount: 0.1}, {Amount: 0.2}, {Amount: 1234.56}}

	sum := apply(t, ex)

	require.NotNil(t, sum.Subtotal)
	assert.Equal(t, 1234.86, *sum.Subtotal)
}

func TestReconcile_BareTotalCell(t *testing.T) {
	rows := []domain.Row{
		domain.StringRow(0, "", "รวม", "240.00"),
	}
	ex := domain.NewExtraction(domain.FormMarkup, rows, domain.DefaultEngineConfig())

	sum := apply(t, ex)

	require.NotNil(t, sum.Subtotal)
	assert.Equal(t, 240.0, *sum.Subtotal)
	assert.False(t, sum.SubtotalDerived)
}

func TestReconcile_DiscountEqualToSubtotalIsReset(t *testing.T) {
	ex := lines(
		"รวมเป็นเงิน 1,000.00",
		"หัก ส่วนลด 1,000.00",
	)

	sum := apply(t, ex)

	assert.Equal(t, 0.0, sum.Discount)
	require.NotNil(t, sum.Total)
	assert.Equal(t, 1000.0, *sum.Total)
	assert.Equal(t, []domain.DiagnosticKind{domain.KindMismatch}, kinds(ex))
}

func TestReconcile_Discount(t *testing.T) {
	ex := lines(
		"รวมเป็นเงิน 1,000.00",
		"ส่วนลดพิเศษ 999.00",
		"หักส่วนลด 5% 50.00",
		"ภาษีมูลค่าเพิ่ม 7% 66.50",
	)

	sum := apply(t, ex)

	assert.Equal(t, 50.0, sum.Discount)
	require.NotNil(t, sum.Total)
	assert.Equal(t, 1016.5, *sum.Total)
}

func TestReconcile_DiscountLabels(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want float64
	}{
		{"signed thai", "หักส่วนลด -500.00", 500},
		{"signed spaced", "หัก ส่วนลด  -500.00", 500},
		{"less discount", "Less discount 500.00", 500},
		{"deduct discount signed", "Deduct: discount -500.00", 500},
		{"bare english word", "Discount 500.00", 0},
		{"discount without deduct", "ส่วนลดพิเศษ 500.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := lines("รวมเป็นเงิน 5,000.00", tt.row)

			sum := apply(t, ex)

			assert.Equal(t, tt.want, sum.Discount)
			require.NotNil(t, sum.Total)
			assert.Equal(t, 5000-tt.want, *sum.Total)
		})
	}
}

func TestReconcile_UnlabeledFallbackSkipsNegative(t *testing.T) {
	ex := lines(
		"ใบเสนอราคา QT6800123",
		"ยอดปรับปรุง -9,000.00",
		"ชำระแล้ว 1,500.00",
	)

	sum := apply(t, ex)

	require.NotNil(t, sum.Total)
	assert.Equal(t, 1500.0, *sum.Total)
}

func TestReconcile_Consistency(t *testing.T) {
	tests := []struct {
		name  string
		total string
		want  []domain.DiagnosticKind
	}{
		{"consistent", "จำนวนเงินรวมทั้งสิ้น 1,070.00", nil},
		{"within tolerance", "จำนวนเงินรวมทั้งสิ้น 1,070.90", nil},
		{"mismatch", "จำนวนเงินรวมทั้งสิ้น 1,200.00", []domain.DiagnosticKind{domain.KindMismatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := lines("รวมเป็นเงิน 1,000.00", "ภาษีมูลค่าเพิ่ม 7% 70.00", tt.total)
			sum := apply(t, ex)
			require.NotNil(t, sum.Total)
			assert.False(t, sum.TotalDerived)
			assert.Equal(t, tt.want, kinds(ex))
		})
	}
}

func TestReconcile_VAT(t *testing.T) {
	t.Run("rate derived from net", func(t *testing.T) {
		ex := lines("รวมเป็นเงิน 1,000.00", "หัก ส่วนลด 100.00", "ภาษีมูลค่าเพิ่ม 63.00")
		sum := apply(t, ex)
		require.NotNil(t, sum.VATPercent)
		assert.Equal(t, 7.0, *sum.VATPercent)
		require.NotNil(t, sum.Total)
		assert.Equal(t, 963.0, *sum.Total)
	})

	t.Run("amount without rate or subtotal is dropped", func(t *testing.T) {
		ex := lines("VAT 63.00")
		sum := apply(t, ex)
		assert.Nil(t, sum.VATAmount)
		assert.Nil(t, sum.VATPercent)
		assert.Equal(t, []domain.DiagnosticKind{domain.KindPartial}, kinds(ex))
	})

	t.Run("rate without amount is ignored", func(t *testing.T) {
		ex := lines("ภาษีมูลค่าเพิ่ม 7%", "VAT 7% 21.00", "รวมเป็นเงิน 300.00")
		sum := apply(t, ex)
		require.NotNil(t, sum.VATAmount)
		assert.Equal(t, 21.0, *sum.VATAmount)
		assert.Equal(t, 7.0, *sum.VATPercent)
	})

	t.Run("taxpayer id is not VAT", func(t *testing.T) {
		ex := lines("เลขประจำตัวผู้เสียภาษี 0105551234567")
		sum := apply(t, ex)
		assert.Nil(t, sum.VATAmount)
		assert.Empty(t, ex.Diagnostics)
	})
}

func TestReconcile_UnlabeledFallback(t *testing.T) {
	rows := []string{"ค่าบริการ 1,250.00", "ค่าแรง 3,500.00", "ค่าอื่น 50.00"}

	sum := apply(t, lines(rows...))
	require.NotNil(t, sum.Total)
	assert.Equal(t, 3500.0, *sum.Total)
	assert.False(t, sum.TotalDerived)

	sum = apply(t, lines(rows...), WithUnlabeledFallback(false))
	assert.Nil(t, sum.Total)
}

func TestReconcile_IgnoresRowsAboveTable(t *testing.T) {
	ex := lines(
		"หัก ส่วนลด 50.00",
		"ลำดับ รายละเอียด จำนวน หน่วย ราคา จำนวนเงิน",
		"รวมเป็นเงิน 500.00",
	)
	ex.HeaderRow, ex.TableEnd = 1, 2

	sum := apply(t, ex)

	assert.Equal(t, 0.0, sum.Discount)
	require.NotNil(t, sum.Total)
	assert.Equal(t, 500.0, *sum.Total)
}
