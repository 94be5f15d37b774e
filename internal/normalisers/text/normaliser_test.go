package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trims and collapses", "  QT6800123 \t\n ลูกค้า  ", "QT6800123 ลูกค้า"},
		{"control characters", "A\x00B\x07C\x7fD", "A B C D"},
		{"zero width inside word", "รวม\u200bเป็นเงิน", "รวมเป็นเงิน"},
		{"soft hyphen", "Sub\u00adtotal", "Subtotal"},
		{"decomposed sara am", "จ\u0e4d\u0e32นวน", "จ\u0e33นวน"},
		{"space before dependent vowel", "จ ำนวน", "จำนวน"},
		{"space before tone mark", "รวมทั้งส ิ ้น", "รวมทั้งสิ้น"},
		{"space after leading vowel", "เ ลขที่", "เลขที่"},
		{"words keep their separating space", "บริษัท ตัวอย่าง จำกัด", "บริษัท ตัวอย่าง จำกัด"},
		{"digits are not merged", "3 80.00 240.00", "3 80.00 240.00"},
		{"non breaking space", "5,000.00\u00a0บาท", "5,000.00 บาท"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	in := " ร วม\u200b เป็นเงิน \r\n 5,000.00 "
	once := Clean(in)
	assert.Equal(t, once, Clean(once))
}

func TestCleanLines(t *testing.T) {
	in := "QT6800123\r\n\r\n  ลูกค้า CU0012  \n\x00\nรวมเป็นเงิน 240.00"

	assert.Equal(t, []string{"QT6800123", "ลูกค้า CU0012", "รวมเป็นเงิน 240.00"}, CleanLines(in))
	assert.Nil(t, CleanLines(" \n \t "))
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two space gaps", "1  Cable tie 8\"   3  ห่อ  80.00  240.00", []string{"1", "Cable tie 8\"", "3", "ห่อ", "80.00", "240.00"}},
		{"tabs", "A001\tCable\t3", []string{"A001", "Cable", "3"}},
		{"single spaces stay together", "Cable tie white", []string{"Cable tie white"}},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitColumns(tt.in))
		})
	}
}
