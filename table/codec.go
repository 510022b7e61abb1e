// Package table reads and writes the flat CSV file that carries extracted
// budget lines between the extractor and the reports.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/shopspring/decimal"
)

// Header is the comment line written before the records.
const Header = "# line,type,amount,ministry,source"

const fieldCount = 5

// Encode writes the header and one row per line.
func Encode(w io.Writer, lines []common.BudgetLine) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, l := range lines {
		row := strings.Join([]string{
			strconv.Itoa(l.LineNumber),
			escape(string(l.Type)),
			FormatAmount(l.Amount),
			escape(l.MinistryOrDefault()),
			escape(l.Source),
		}, ",")
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatAmount renders a plain decimal with its scale, never in exponent form.
func FormatAmount(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

func escape(s string) string {
	if !strings.ContainsAny(s, ",\r\n\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Decode reads rows written by Encode. The first row is skipped as the header
// and blank lines are ignored. Rows that do not decode into a line are
// skipped and returned as ErrDecode diagnostics; only read failures are fatal.
func Decode(r io.Reader) ([]common.BudgetLine, []error, error) {
	reader := &rowReader{r: bufio.NewReader(r)}

	var lines []common.BudgetLine
	var diagnostics []error
	header := true

	for {
		fields, lineNo, err := reader.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lines, diagnostics, err
		}
		if fields == nil {
			continue
		}
		if header {
			header = false
			continue
		}

		line, err := parseRow(fields)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Errorf("%w: line %d: %v", common.ErrDecode, lineNo, err))
			continue
		}
		lines = append(lines, line)
	}

	return lines, diagnostics, nil
}

func parseRow(fields []string) (common.BudgetLine, error) {
	if len(fields) != fieldCount {
		return common.BudgetLine{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	number, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return common.BudgetLine{}, fmt.Errorf("line number %q: %v", fields[0], err)
	}

	entryType := common.EntryType(strings.TrimSpace(fields[1]))
	if !entryType.Valid() {
		return common.BudgetLine{}, fmt.Errorf("unknown type %q", fields[1])
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return common.BudgetLine{}, fmt.Errorf("amount %q: %v", fields[2], err)
	}

	return common.BudgetLine{
		LineNumber: number,
		Type:       entryType,
		Amount:     amount,
		Ministry:   fields[3],
		Source:     fields[4],
	}, nil
}

// rowReader splits the stream into rows with an inside-quotes flag, so quoted
// fields may carry commas and line breaks.
type rowReader struct {
	r    *bufio.Reader
	line int
}

// next returns the fields of the next row, or nil fields for a blank line.
// The returned number is the physical line the row started on.
func (rr *rowReader) next() ([]string, int, error) {
	rr.line++
	start := rr.line

	var fields []string
	var current strings.Builder
	inQuotes := false
	sawAny := false

	for {
		c, _, err := rr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if !sawAny {
				return nil, start, io.EOF
			}
			return append(fields, current.String()), start, nil
		}
		if err != nil {
			return nil, start, err
		}

		switch {
		case c == '"':
			sawAny = true
			if inQuotes {
				if peek, _, err := rr.r.ReadRune(); err == nil {
					if peek == '"' {
						current.WriteRune('"')
						continue
					}
					rr.r.UnreadRune()
				}
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			sawAny = true
			fields = append(fields, current.String())
			current.Reset()
		case c == '\n' && !inQuotes:
			if !sawAny {
				return nil, start, nil
			}
			return append(fields, current.String()), start, nil
		case c == '\r' && !inQuotes:
			if peek, _, err := rr.r.ReadRune(); err == nil {
				if peek == '\n' {
					rr.r.UnreadRune()
					continue
				}
				rr.r.UnreadRune()
			}
			sawAny = true
			current.WriteRune(c)
		default:
			if c == '\n' {
				rr.line++
			}
			if c != ' ' && c != '\t' {
				sawAny = true
			}
			current.WriteRune(c)
		}
	}
}

// WriteFile encodes lines into path, creating its directory.
func WriteFile(path string, lines []common.BudgetLine) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, lines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile decodes the file at path. A missing file is ErrMissingInput.
func ReadFile(path string) ([]common.BudgetLine, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", common.ErrMissingInput, path)
		}
		return nil, nil, err
	}
	defer f.Close()
	return Decode(f)
}
