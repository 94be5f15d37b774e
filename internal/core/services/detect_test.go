package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

func TestDetectForm(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     Detection
	}{
		{"pdf magic", "upload.bin", "%PDF-1.7\n...", Detection{Form: domain.FormPlainText, PDF: true}},
		{"pdf magic after bom", "x", "\ufeff  %PDF-1.4", Detection{Form: domain.FormPlainText, PDF: true}},
		{"workbook", "export.dat", `<?xml version="1.0"?><Workbook>`, Detection{Form: domain.FormMarkup}},
		{"prefixed workbook", "x", `<ss:Workbook xmlns:ss="urn">`, Detection{Form: domain.FormMarkup}},
		{"bare rows", "x", `<Row><Cell/></Row>`, Detection{Form: domain.FormMarkup}},
		{"xml extension", "QT001.XML", "plain", Detection{Form: domain.FormMarkup}},
		{"csv extension", "so.csv", "a,b", Detection{Form: domain.FormDelimited}},
		{"pdf extension", "scan.pdf", "garbage", Detection{Form: domain.FormPlainText, PDF: true}},
		{"delimited txt", "so.txt", "\"a\",\"b\",\"c\"\nnext", Detection{Form: domain.FormDelimited}},
		{"plain txt", "qt.txt", "ใบเสนอราคา QT6800001, หน้า 1\n", Detection{Form: domain.FormPlainText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectForm(tt.filename, []byte(tt.data), ',')
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectForm_CustomDelimiter(t *testing.T) {
	got, err := DetectForm("so.txt", []byte("a;b;c"), ';')
	require.NoError(t, err)
	assert.Equal(t, domain.FormDelimited, got.Form)
}

func TestDetectForm_Unsupported(t *testing.T) {
	_, err := DetectForm("report.docx", []byte("PK\x03\x04"), ',')
	assert.True(t, errors.Is(err, domain.ErrUnsupportedForm))
}
