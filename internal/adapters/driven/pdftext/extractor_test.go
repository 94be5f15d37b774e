package pdftext

import (
	"context"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name string
		runs []pdf.Text
		want string
	}{
		{"empty", nil, ""},
		{
			name: "touching runs are glued",
			runs: []pdf.Text{
				{S: "ใบเสนอ", X: 10, W: 30, FontSize: 10},
				{S: "ราคา", X: 40, W: 20, FontSize: 10},
			},
			want: "ใบเสนอราคา",
		},
		{
			name: "gaps become spaces",
			runs: []pdf.Text{
				{S: "QT6800001", X: 10, W: 50, FontSize: 10},
				{S: "CU0042", X: 100, W: 40, FontSize: 10},
			},
			want: "QT6800001 CU0042",
		},
		{
			name: "whitespace collapsed",
			runs: []pdf.Text{
				{S: "  1 ", X: 0, W: 5, FontSize: 10},
				{S: "  A001", X: 30, W: 20, FontSize: 10},
			},
			want: "1 A001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinRow(tt.runs))
		})
	}
}

func TestExtract_NotAPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a pdf")},
		{"truncated header", []byte("%PDF-1.4\n%%EOF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Extract(context.Background(), tt.data)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}
