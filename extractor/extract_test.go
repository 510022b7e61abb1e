package extractor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	headline []string
	lines    []string
}

type fakeDocument struct {
	pages []fakePage
	err   error
}

func (d *fakeDocument) NumPages() int { return len(d.pages) }

func (d *fakeDocument) Lines(ctx context.Context, page int) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.pages[page-1].lines, nil
}

func (d *fakeDocument) HeadlineLines(ctx context.Context, page int) ([]string, error) {
	return d.pages[page-1].headline, nil
}

func testConfig() common.Config {
	cfg := common.DefaultConfig()
	cfg.ExcludedPages = map[int]bool{1: true}
	return cfg
}

// Synthetic budget document: a cover page, one revenue page and two ministry pages.
func testDocument() *fakeDocument {
	return &fakeDocument{pages: []fakePage{
		{
			headline: []string{"ΚΡΑΤΙΚΟΣ ΠΡΟΫΠΟΛΟΓΙΣΜΟΣ"},
			lines:    []string{"ΕΣΟΔΑ", "99 Εξώφυλλο 1"},
		},
		{
			headline: []string{"ΕΣΟΔΑ ΚΡΑΤΙΚΟΥ ΠΡΟΫΠΟΛΟΓΙΣΜΟΥ", "Οικονομικό έτος 2025"},
			lines: []string{
				"Κωδικός Ονομασία 2025",
				"ΕΣΟΔΑ",
				"11 Φόροι 62.142.000.000",
				"1150602 Φόρος συμβάσεων, συμφωνιών 658.000.000",
				"12 Κοινωνικές εισφορές 60.000.000",
				"Σύνολο 62.860.000.000",
			},
		},
		{
			headline: []string{"ΥΠΟΥΡΓΕΙΟ", "ΥΓΕΙΑΣ", "Πιστώσεις κατά Φορέα"},
			lines: []string{
				"ΕΞΟΔΑ",
				"1015-201-0000000 Γενική Διεύθυνση 1.500.000,50",
				"2110101 Αποδοχές 3.000.000",
				"Σ ύ ν ο λ ο 4.500.000,50",
			},
		},
		{
			headline: []string{},
			lines: []string{
				"2120101 Εισφορές 9.999",
				"2130101 Λοιπά 1.2,3",
				"Σελίδα",
			},
		},
	}}
}

func TestExtract_Records(t *testing.T) {
	result, err := Extract(context.Background(), testDocument(), testConfig())
	require.NoError(t, err)

	lines := result.Lines
	require.Len(t, lines, 6)

	assert.Equal(t, common.BudgetLine{
		LineNumber: 1,
		Type:       common.Revenue,
		Amount:     lines[0].Amount,
		Ministry:   common.NoMinistry,
		Source:     "11 Φόροι",
	}, lines[0])
	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("62142000000")))

	assert.Equal(t, "1150602 Φόρος συμβάσεων, συμφωνιών", lines[1].Source)
	assert.Equal(t, "12 Κοινωνικές εισφορές", lines[2].Source)

	assert.Equal(t, common.Expenditure, lines[3].Type)
	assert.Equal(t, "ΥΠΟΥΡΓΕΙΟ ΥΓΕΙΑΣ", lines[3].Ministry)
	assert.Equal(t, "1015-201-0000000 Γενική Διεύθυνση", lines[3].Source)
	assert.Equal(t, "1500000.50", lines[3].Amount.StringFixed(2))

	// Page without headline text falls back to the sentinel.
	assert.Equal(t, common.NoMinistry, lines[5].Ministry)
	assert.Equal(t, "2120101 Εισφορές", lines[5].Source)
}

func TestExtract_ContiguousNumbering(t *testing.T) {
	result, err := Extract(context.Background(), testDocument(), testConfig())
	require.NoError(t, err)

	for i, line := range result.Lines {
		assert.Equal(t, i+1, line.LineNumber)
	}
}

func TestExtract_Stats(t *testing.T) {
	result, err := Extract(context.Background(), testDocument(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.Pages)
	assert.Equal(t, 1, result.Stats.SkippedPages)
	assert.Equal(t, 8, result.Stats.Candidates)
	assert.Equal(t, 0, result.Stats.MalformedAmounts)
	assert.Equal(t, 8, result.Stats.BeforeFilter)
	assert.Equal(t, 6, result.Stats.AfterFilter)
	assert.NotEmpty(t, result.RunID)
}

func TestExtract_ExcludedPageContributesNothing(t *testing.T) {
	result, err := Extract(context.Background(), testDocument(), testConfig())
	require.NoError(t, err)

	for _, line := range result.Lines {
		assert.NotEqual(t, "99 Εξώφυλλο", line.Source)
	}
}

func TestExtract_SectionGating(t *testing.T) {
	doc := &fakeDocument{pages: []fakePage{
		{lines: []string{"11 Φόροι 100", "12 Εισφορές 200"}},
	}}
	cfg := common.DefaultConfig()
	cfg.ExcludedPages = nil

	result, err := Extract(context.Background(), doc, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
}

func TestExtract_LogsCounts(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))

	_, err := Extract(ctx, testDocument(), testConfig())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "extraction finished")
	assert.Contains(t, buf.String(), `"before_filter":8`)
	assert.Contains(t, buf.String(), `"after_filter":6`)
}

func TestExtract_IgnoresLinesWithBadAmountShape(t *testing.T) {
	result, err := Extract(context.Background(), testDocument(), testConfig())
	require.NoError(t, err)

	for _, line := range result.Lines {
		assert.NotContains(t, line.Source, "Λοιπά")
	}
}

func TestExtract_PageErrorAbortsRun(t *testing.T) {
	doc := testDocument()
	doc.err = errors.New("broken page")

	_, err := Extract(context.Background(), doc, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken page")
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, testDocument(), testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessFile_Missing(t *testing.T) {
	_, err := ProcessFile(context.Background(), "does-not-exist.pdf", testConfig())
	assert.ErrorIs(t, err, common.ErrMissingInput)
}
