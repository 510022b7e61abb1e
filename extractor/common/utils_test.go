package common

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/dslipak/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRun(t *testing.T) {
	tests := []struct {
		name     string
		texts    pdf.TextHorizontal
		expected string
	}{
		{
			name:     "empty",
			texts:    nil,
			expected: "",
		},
		{
			name: "touching runs are glued",
			texts: pdf.TextHorizontal{
				{X: 10, W: 5, FontSize: 12, S: "ΕΣ"},
				{X: 15, W: 5, FontSize: 12, S: "ΟΔΑ"},
			},
			expected: "ΕΣΟΔΑ",
		},
		{
			name: "gap becomes one space",
			texts: pdf.TextHorizontal{
				{X: 10, W: 10, FontSize: 12, S: "11"},
				{X: 25, W: 30, FontSize: 12, S: "Φόροι"},
			},
			expected: "11 Φόροι",
		},
		{
			name: "sorted by position",
			texts: pdf.TextHorizontal{
				{X: 100, W: 40, FontSize: 10, S: "62.142.000.000"},
				{X: 10, W: 10, FontSize: 10, S: "11"},
				{X: 25, W: 30, FontSize: 10, S: "Φόροι"},
			},
			expected: "11 Φόροι 62.142.000.000",
		},
		{
			name: "zero width run is followed by a space",
			texts: pdf.TextHorizontal{
				{X: 10, W: 0, FontSize: 10, S: "Α"},
				{X: 10.5, W: 5, FontSize: 10, S: "Β"},
			},
			expected: "Α Β",
		},
		{
			name: "decomposed accents are composed",
			texts: pdf.TextHorizontal{
				{X: 10, W: 20, FontSize: 10, S: "\u0395\u0301σοδα"},
			},
			expected: "\u0388σοδα",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinRun(tt.texts))
		})
	}
}

func TestNewPDFDocument_NotAPDF(t *testing.T) {
	_, err := NewPDFDocument(bytes.NewReader([]byte("not a valid pdf")), nil)
	assert.Error(t, err)
}

func TestOpenPDF_Missing(t *testing.T) {
	_, _, err := OpenPDF(filepath.Join(t.TempDir(), "missing.pdf"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInput)
}
