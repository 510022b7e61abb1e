package integrations

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obelisk/budgetdb/extractor"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/logger"
	"github.com/obelisk/budgetdb/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtract returns one line whose source names the file, and fails for
// files whose name contains "broken".
func fakeExtract(ctx context.Context, path string, cfg common.Config) (extractor.Result, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.Contains(name, "broken") {
		return extractor.Result{Source: name}, errors.New("no pages")
	}
	return extractor.Result{
		RunID:  "run-" + name,
		Source: name,
		Stats:  extractor.Stats{BeforeFilter: 5, AfterFilter: 2},
		Lines: []common.BudgetLine{
			{LineNumber: 1, Type: common.Revenue, Amount: decimal.NewFromInt(100), Ministry: "-", Source: "11 " + name},
			{LineNumber: 2, Type: common.Expenditure, Amount: decimal.NewFromInt(40), Ministry: "Υπουργείο Υγείας", Source: "21 " + name},
		},
	}, nil
}

func newTestImporter(t *testing.T) (*Importer, *MemoryStore, string) {
	t.Helper()
	store := NewMemoryStore()
	outDir := filepath.Join(t.TempDir(), "out")
	im := NewImporter(store, common.DefaultConfig(), outDir)
	im.extract = fakeExtract
	return im, store, outDir
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

func TestImportFile_WritesCSVAndReplacesStore(t *testing.T) {
	ctx := context.Background()
	im, store, outDir := newTestImporter(t)

	require.NoError(t, store.SaveAll(ctx, []common.BudgetLine{{LineNumber: 9, Type: common.Revenue, Source: "old"}}))

	src := filepath.Join(t.TempDir(), "budget2025.pdf")
	touch(t, src)

	result, output, err := im.ImportFile(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "budget2025.csv"), output)
	assert.Len(t, result.Lines, 2)

	fromFile, diagnostics, err := table.ReadFile(output)
	require.NoError(t, err)
	assert.Empty(t, diagnostics)
	require.Len(t, fromFile, 2)
	assert.Equal(t, "11 budget2025", fromFile[0].Source)

	stored, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "11 budget2025", stored[0].Source)
}

func TestImportDirectory(t *testing.T) {
	ctx := context.Background()
	im, store, outDir := newTestImporter(t)

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a2024.pdf"))
	touch(t, filepath.Join(dir, "b2025.PDF"))
	touch(t, filepath.Join(dir, "broken.pdf"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	result, err := im.Import(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 4, result.Lines)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no pages")
	assert.Equal(t, []string{
		filepath.Join(outDir, "a2024.csv"),
		filepath.Join(outDir, "b2025.csv"),
	}, result.Outputs)

	require.Len(t, result.Files, 2)
	assert.Equal(t, FileResult{
		Path:         filepath.Join(dir, "b2025.PDF"),
		Output:       filepath.Join(outDir, "b2025.csv"),
		BeforeFilter: 5,
		AfterFilter:  2,
	}, result.Files[1])

	// the last successful file wins
	stored, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "11 b2025", stored[0].Source)
}

func TestImportFile_LogsFilterCounts(t *testing.T) {
	im, _, _ := newTestImporter(t)

	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf))

	src := filepath.Join(t.TempDir(), "budget2025.pdf")
	touch(t, src)

	result, err := im.Import(ctx, src)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, 5, result.Files[0].BeforeFilter)
	assert.Equal(t, 2, result.Files[0].AfterFilter)

	assert.Contains(t, buf.String(), `"before_filter":5`)
	assert.Contains(t, buf.String(), `"after_filter":2`)
	assert.Contains(t, buf.String(), `"run_id":"run-budget2025"`)
}

func TestImport_SingleFileFailure(t *testing.T) {
	im, _, _ := newTestImporter(t)

	src := filepath.Join(t.TempDir(), "broken.pdf")
	touch(t, src)

	_, err := im.Import(context.Background(), src)
	assert.Error(t, err)
}

func TestImport_MissingPath(t *testing.T) {
	im, _, _ := newTestImporter(t)

	_, err := im.Import(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, common.ErrMissingInput)
}
