package extractor

import (
	"sort"
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
)

// SortByLineNumber returns lines in provisional discovery order. The sort is
// stable, so equal numbers keep their relative order.
func SortByLineNumber(lines []common.BudgetLine) []common.BudgetLine {
	sorted := make([]common.BudgetLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LineNumber < sorted[j].LineNumber
	})
	return sorted
}

// FilterNoise drops column-header repeats and running totals: any line whose
// folded, whitespace-free source contains one of the phrases.
func FilterNoise(lines []common.BudgetLine, phrases []string) []common.BudgetLine {
	folded := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if fp := common.FoldCompact(p); fp != "" {
			folded = append(folded, fp)
		}
	}

	kept := make([]common.BudgetLine, 0, len(lines))
	for _, line := range lines {
		if !isNoise(common.FoldCompact(line.Source), folded) {
			kept = append(kept, line)
		}
	}
	return kept
}

func isNoise(source string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(source, p) {
			return true
		}
	}
	return false
}

// Renumber assigns line numbers 1..N in the current order.
func Renumber(lines []common.BudgetLine) []common.BudgetLine {
	for i := range lines {
		lines[i].LineNumber = i + 1
	}
	return lines
}
