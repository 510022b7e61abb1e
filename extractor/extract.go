package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/obelisk/budgetdb/extractor/budget"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/logger"
)

// Stats are the diagnostic counters of one run.
type Stats struct {
	Pages            int `json:"pages"`
	SkippedPages     int `json:"skipped_pages"`
	Candidates       int `json:"candidates"`
	MalformedAmounts int `json:"malformed_amounts"`
	BeforeFilter     int `json:"before_filter"`
	AfterFilter      int `json:"after_filter"`
}

// Result is the outcome of extracting one document.
type Result struct {
	RunID  string              `json:"run_id"`
	Source string              `json:"source"`
	Lines  []common.BudgetLine `json:"lines"`
	Stats  Stats               `json:"stats"`
}

// Extract runs the page loop over doc and returns the filtered, renumbered records.
func Extract(ctx context.Context, doc common.Document, cfg common.Config) (Result, error) {
	startTime := time.Now()
	result := Result{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", result.RunID).Logger()

	scanner := budget.NewScanner(cfg.Keywords)
	var lines []common.BudgetLine

	for page := 1; page <= doc.NumPages(); page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Stats.Pages++
		if cfg.ExcludedPages[page] {
			result.Stats.SkippedPages++
			continue
		}

		headline, err := doc.HeadlineLines(ctx, page)
		if err != nil {
			return result, fmt.Errorf("headline text of page %d: %w", page, err)
		}
		title, _ := budget.ExtractTitle(headline, cfg.StructuralMarkers)
		ministry := budget.MinistryFor(title, cfg.Keywords)

		text, err := doc.Lines(ctx, page)
		if err != nil {
			return result, fmt.Errorf("text of page %d: %w", page, err)
		}

		items := scanner.ScanPage(page, text, ministry)
		result.Stats.Candidates += len(items)
		log.Debug().Int("page", page).Str("ministry", ministry).Int("items", len(items)).Msg("page scanned")

		for _, item := range items {
			amount, err := common.NormalizeAmount(item.Amount)
			if err != nil {
				result.Stats.MalformedAmounts++
				log.Warn().Err(err).Int("page", item.Page).Int("row", item.Row).Str("source", item.Source).Msg("dropping line")
				continue
			}
			lines = append(lines, common.BudgetLine{
				LineNumber: len(lines) + 1,
				Type:       item.Type,
				Amount:     amount,
				Ministry:   item.Ministry,
				Source:     item.Source,
			})
		}
	}

	result.Stats.BeforeFilter = len(lines)
	lines = Renumber(FilterNoise(SortByLineNumber(lines), cfg.NoisePhrases))
	result.Stats.AfterFilter = len(lines)
	result.Lines = lines

	log.Info().
		Int("before_filter", result.Stats.BeforeFilter).
		Int("after_filter", result.Stats.AfterFilter).
		Dur("elapsed", time.Since(startTime)).
		Msg("extraction finished")

	return result, nil
}

// ProcessReader extracts records from a PDF held in reader.
func ProcessReader(ctx context.Context, reader io.Reader, name string, cfg common.Config) (Result, error) {
	doc, err := common.NewPDFDocument(reader, cfg.HeadlineFonts)
	if err != nil {
		return Result{}, err
	}
	result, err := Extract(ctx, doc, cfg)
	result.Source = sourceName(name)
	return result, err
}

// ProcessFile extracts records from a PDF file.
func ProcessFile(ctx context.Context, path string, cfg common.Config) (Result, error) {
	doc, closer, err := common.OpenPDF(path, cfg.HeadlineFonts)
	if err != nil {
		return Result{}, err
	}
	defer closer.Close()

	log := logger.FromContext(ctx)
	log.Info().Str("file", path).Msg("extracting")
	result, err := Extract(ctx, doc, cfg)
	result.Source = sourceName(path)
	if err != nil && !errors.Is(err, context.Canceled) {
		return result, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return result, err
}

func sourceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
