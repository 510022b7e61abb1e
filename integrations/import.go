package integrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/obelisk/budgetdb/extractor"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/logger"
	"github.com/obelisk/budgetdb/table"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Lines     int          `json:"lines"`
	Outputs   []string     `json:"outputs"`
	Files     []FileResult `json:"files"`
	Errors    []string     `json:"errors,omitempty"`
}

// FileResult is the per-file line count before and after noise filtering.
type FileResult struct {
	Path         string `json:"path"`
	Output       string `json:"output"`
	BeforeFilter int    `json:"before_filter"`
	AfterFilter  int    `json:"after_filter"`
}

func (r *ImportResult) add(path, output string, extracted extractor.Result) {
	r.Processed++
	r.Lines += len(extracted.Lines)
	r.Outputs = append(r.Outputs, output)
	r.Files = append(r.Files, FileResult{
		Path:         path,
		Output:       output,
		BeforeFilter: extracted.Stats.BeforeFilter,
		AfterFilter:  extracted.Stats.AfterFilter,
	})
}

// Importer extracts budget PDFs, writes each one to <OutputDir>/<name>.csv
// and replaces the store contents with its lines.
type Importer struct {
	Store     Store
	Config    common.Config
	OutputDir string

	extract func(ctx context.Context, path string, cfg common.Config) (extractor.Result, error)
}

func NewImporter(store Store, cfg common.Config, outputDir string) *Importer {
	return &Importer{
		Store:     store,
		Config:    cfg,
		OutputDir: outputDir,
		extract:   extractor.ProcessFile,
	}
}

// ImportFile processes a single PDF. The returned path is the CSV written.
func (im *Importer) ImportFile(ctx context.Context, path string) (extractor.Result, string, error) {
	result, err := im.extract(ctx, path, im.Config)
	if err != nil {
		return result, "", err
	}

	name := result.Source
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	output := filepath.Join(im.OutputDir, name+".csv")
	if err := table.WriteFile(output, result.Lines); err != nil {
		return result, "", fmt.Errorf("%s: failed to write %s: %w", filepath.Base(path), output, err)
	}

	if im.Store != nil {
		if err := Replace(ctx, im.Store, result.Lines); err != nil {
			return result, output, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("run_id", result.RunID).
		Str("file", path).
		Str("output", output).
		Int("before_filter", result.Stats.BeforeFilter).
		Int("after_filter", result.Stats.AfterFilter).
		Msg("imported")
	return result, output, nil
}

// ImportDirectory processes every PDF in a directory in name order. Each file
// replaces the store contents, so the store ends up holding the last budget.
func (im *Importer) ImportDirectory(ctx context.Context, dirPath string) (*ImportResult, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var pdfFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			pdfFiles = append(pdfFiles, filepath.Join(dirPath, e.Name()))
		}
	}
	sort.Strings(pdfFiles)

	log := logger.FromContext(ctx)
	log.Info().Str("dir", dirPath).Int("files", len(pdfFiles)).Msg("scanning")

	result := &ImportResult{}
	for _, filePath := range pdfFiles {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		extracted, output, err := im.ImportFile(ctx, filePath)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			log.Warn().Err(err).Str("file", filePath).Msg("import failed")
			continue
		}
		result.add(filePath, output, extracted)
	}

	return result, nil
}

// Import handles both file and directory imports
func (im *Importer) Import(ctx context.Context, path string) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return im.ImportDirectory(ctx, path)
	}

	extracted, output, err := im.ImportFile(ctx, path)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{}
	result.add(path, output, extracted)
	return result, nil
}
