package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/table"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const unicodeFamily = "budget"

// PDFRenderer writes the summary report as a PDF. With a TrueType font path
// Greek text is embedded as is; without one the core Helvetica font is used
// and Greek letters are transliterated to Latin.
type PDFRenderer struct {
	FontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{FontPath: fontPath}
}

// Render returns the report for s as PDF bytes.
func (r *PDFRenderer) Render(title string, s aggregate.Summary) ([]byte, error) {
	fontDir := ""
	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err != nil {
			return nil, fmt.Errorf("report font: %w", err)
		}
		fontDir = filepath.Dir(r.FontPath)
	}

	pdf := gofpdf.New("P", "mm", "A4", fontDir)
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	var text func(string) string
	if r.FontPath != "" {
		pdf.AddUTF8Font(unicodeFamily, "", filepath.Base(r.FontPath))
		pdf.AddUTF8Font(unicodeFamily, "B", filepath.Base(r.FontPath))
		family = unicodeFamily
		text = func(s string) string { return s }
	} else {
		cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
		text = func(s string) string { return cp1252(transliterate(s)) }
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 16)
		pdf.MultiCell(0, 8, text(title), "", "L", false)
		pdf.Ln(4)
	}

	heading(pdf, family, text("ΠΙΝΑΚΑΣ 1 - ΕΣΟΔΑ"))
	row(pdf, family, "B", []float64{15, 125, 40}, text("ΚΩΔ"), text("ΠΕΡΙΓΡΑΦΗ"), text("ΠΟΣΟ (€)"))
	for _, c := range s.Revenue.Categories {
		row(pdf, family, "", []float64{15, 125, 40}, c.Code, text(c.Label), table.FormatAmount(c.Amount))
	}
	row(pdf, family, "B", []float64{140, 40}, text("Σύνολο εσόδων"), table.FormatAmount(s.Revenue.Total))

	pdf.Ln(6)
	heading(pdf, family, text("ΠΙΝΑΚΑΣ 2 - ΕΞΟΔΑ ΑΝΑ ΥΠΟΥΡΓΕΙΟ"))
	row(pdf, family, "B", []float64{140, 40}, text("ΥΠΟΥΡΓΕΙΟ / ΦΟΡΕΑΣ"), text("ΠΟΣΟ ΕΞΟΔΩΝ (€)"))
	for _, m := range s.Expenditure.Ministries {
		row(pdf, family, "", []float64{140, 40}, text(m.Ministry), table.FormatAmount(m.Total))
	}
	row(pdf, family, "B", []float64{140, 40}, text("Σύνολο εξόδων"), table.FormatAmount(s.Expenditure.Total))

	pdf.Ln(6)
	pdf.SetFont(family, "", 11)
	pdf.MultiCell(0, 6, text("Αποτέλεσμα (έσοδα - έξοδα): ")+table.FormatAmount(s.Balance.Result), "", "L", false)
	pdf.SetFont(family, "B", 11)
	pdf.MultiCell(0, 6, text("Ο κρατικός προϋπολογισμός είναι: "+s.Balance.Verdict.Label()), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the report into path.
func (r *PDFRenderer) WriteFile(path, title string, s aggregate.Summary) error {
	data, err := r.Render(title, s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func heading(pdf *gofpdf.Fpdf, family, text string) {
	pdf.SetFont(family, "B", 13)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(2)
}

// row writes one table row; the last column is right aligned.
func row(pdf *gofpdf.Fpdf, family, style string, widths []float64, cells ...string) {
	pdf.SetFont(family, style, 9)
	for i, cell := range cells {
		align := "L"
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, fit(pdf, cell, widths[i]-2), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens s until it fits in width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s + "..."
}

var greekToLatin = map[rune]string{
	'α': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z", 'η': "i", 'θ': "th",
	'ι': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o", 'π': "p",
	'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps",
	'ω': "o",
}

// transliterate maps Greek letters to Latin ones for the core fonts, which
// only cover cp1252.
func transliterate(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	for _, c := range stripped {
		lower := unicode.ToLower(c)
		latin, ok := greekToLatin[lower]
		switch {
		case !ok:
			b.WriteRune(c)
		case lower != c:
			b.WriteString(strings.ToUpper(latin[:1]) + latin[1:])
		default:
			b.WriteString(latin)
		}
	}
	return b.String()
}
