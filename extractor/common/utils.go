package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Document is the text view of a paged source document.
type Document interface {
	NumPages() int
	// Lines returns every text row of a 1-based page in reading order.
	Lines(ctx context.Context, page int) ([]string, error)
	// HeadlineLines returns the rows of a page rebuilt from headline-weight
	// runs only. Rows without such runs are left out.
	HeadlineLines(ctx context.Context, page int) ([]string, error)
}

// PDFDocument reads rows and font names with dslipak/pdf.
type PDFDocument struct {
	reader        *pdf.Reader
	headlineFonts []string

	cachedPage int
	cachedRows pdf.Rows
}

// NewPDFDocument opens a PDF from any reader. Readers that are not
// io.ReaderAt + io.Seeker are buffered in memory.
func NewPDFDocument(reader io.Reader, headlineFonts []string) (*PDFDocument, error) {
	var rAt io.ReaderAt
	var size int64

	switch v := reader.(type) {
	case io.ReaderAt:
		seeker, ok := reader.(io.Seeker)
		if !ok {
			return nil, errors.New("reader is io.ReaderAt but not io.Seeker, cannot determine size")
		}
		cur, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		end, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
			return nil, err
		}
		rAt = v
		size = end
	default:
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(reader); err != nil {
			return nil, err
		}
		b := buf.Bytes()
		rAt = bytes.NewReader(b)
		size = int64(len(b))
	}

	r, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	return &PDFDocument{reader: r, headlineFonts: headlineFonts}, nil
}

// OpenPDF opens a PDF file. A missing file is reported as ErrMissingInput.
func OpenPDF(path string, headlineFonts []string) (*PDFDocument, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, nil, err
	}
	doc, err := NewPDFDocument(file, headlineFonts)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return doc, file, nil
}

func (d *PDFDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *PDFDocument) Lines(ctx context.Context, page int) ([]string, error) {
	rows, err := d.rows(ctx, page)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := joinRun(row.Content); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (d *PDFDocument) HeadlineLines(ctx context.Context, page int) ([]string, error) {
	rows, err := d.rows(ctx, page)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, row := range rows {
		var bold pdf.TextHorizontal
		for _, text := range row.Content {
			if IsHeadlineFont(text.Font, d.headlineFonts) {
				bold = append(bold, text)
			}
		}
		if line := joinRun(bold); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (d *PDFDocument) rows(ctx context.Context, page int) (pdf.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page == d.cachedPage && d.cachedRows != nil {
		return d.cachedRows, nil
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	d.cachedPage, d.cachedRows = page, rows
	return rows, nil
}

// IsHeadlineFont reports whether a PDF font name carries one of the weight
// markers, e.g. "ABCDEF+Arial-BoldMT" with marker "Bold".
func IsHeadlineFont(font string, markers []string) bool {
	lower := strings.ToLower(font)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// joinRun glues the text runs of one row left to right. Runs that touch are
// concatenated, runs separated by a gap get a single space.
func joinRun(texts pdf.TextHorizontal) string {
	if len(texts) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var builder strings.Builder
	builder.Grow(len(sorted) * 8)
	var end float64
	for i, text := range sorted {
		if i > 0 {
			gap := text.X - end
			if sorted[i-1].W == 0 || gap > text.FontSize/6 {
				builder.WriteByte(' ')
			}
		}
		builder.WriteString(text.S)
		end = text.X + text.W
	}
	return NFC(CollapseSpaces(builder.String()))
}
