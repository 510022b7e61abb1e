package budget

import (
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
)

// ExtractTitle folds the headline-weight lines of a page into the page title.
// The title starts at the first non-empty line and grows until a line holds a
// digit or one of the structural markers. The remaining lines, starting with
// the one that closed the title, are returned as rest.
func ExtractTitle(headline []string, markers []string) (title string, rest []string) {
	var parts []string
	for i, raw := range headline {
		line := common.CollapseSpaces(raw)
		if line == "" {
			continue
		}
		if len(parts) == 0 {
			parts = append(parts, line)
			continue
		}
		if closesTitle(line, markers) {
			return strings.Join(parts, " "), headline[i:]
		}
		parts = append(parts, line)
	}
	if len(parts) == 0 {
		return common.NoMinistry, nil
	}
	return strings.Join(parts, " "), nil
}

func closesTitle(line string, markers []string) bool {
	if common.ContainsDigit(line) {
		return true
	}
	folded := common.FoldCompact(line)
	for _, m := range markers {
		if fm := common.FoldCompact(m); fm != "" && strings.Contains(folded, fm) {
			return true
		}
	}
	return false
}

// MinistryFor returns the ministry value records of a page carry. Pages whose
// title is a pure revenue or expenditure heading have no agency breakdown.
func MinistryFor(title string, kw common.Keywords) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return common.NoMinistry
	}
	if kw.Revenue != "" && strings.Contains(title, kw.Revenue) {
		return common.NoMinistry
	}
	if kw.Expenditure != "" && strings.Contains(title, kw.Expenditure) {
		return common.NoMinistry
	}
	return title
}
