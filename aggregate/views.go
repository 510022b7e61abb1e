package aggregate

import (
	"sort"
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/shopspring/decimal"
)

// View is a filtered list of lines in file order with their sum.
type View struct {
	Title string              `json:"title"`
	Lines []common.BudgetLine `json:"lines"`
	Sum   decimal.Decimal     `json:"sum"`
}

func (v *View) add(l common.BudgetLine) {
	v.Lines = append(v.Lines, l)
	v.Sum = v.Sum.Add(l.Amount)
}

// ByType returns every line of the given type.
func ByType(lines []common.BudgetLine, t common.EntryType) View {
	view := View{Title: string(t), Lines: []common.BudgetLine{}, Sum: decimal.Zero}
	for _, l := range lines {
		if l.Type == t {
			view.add(l)
		}
	}
	return view
}

// KnownMinistries lists the distinct ministry values, leaving out blanks and
// the "-" sentinel.
func KnownMinistries(lines []common.BudgetLine) []string {
	seen := map[string]bool{}
	var ministries []string
	for _, l := range lines {
		m := l.Ministry
		if strings.TrimSpace(m) == "" || strings.TrimSpace(m) == common.NoMinistry || seen[m] {
			continue
		}
		seen[m] = true
		ministries = append(ministries, m)
	}
	sort.Strings(ministries)
	return ministries
}

// ResolveMinistry matches a typed name against the known ministries, ignoring
// case and accents.
func ResolveMinistry(lines []common.BudgetLine, query string) (string, bool) {
	for _, m := range KnownMinistries(lines) {
		if common.FoldEqual(m, query) {
			return m, true
		}
	}
	return "", false
}

// ByMinistry returns the lines of the ministry the query names. ok is false
// when no ministry matches or the match has no lines, and the caller should
// ask again.
func ByMinistry(lines []common.BudgetLine, query string) (view View, ok bool) {
	ministry, found := ResolveMinistry(lines, query)
	if !found {
		return View{}, false
	}

	view = View{Title: ministry, Lines: []common.BudgetLine{}, Sum: decimal.Zero}
	for _, l := range lines {
		if l.Ministry == ministry {
			view.add(l)
		}
	}
	return view, len(view.Lines) > 0
}

// ParseEntryType reads a type selector such as "ΕΣΟΔΑ", "έξοδα" or "revenue".
func ParseEntryType(s string) (common.EntryType, bool) {
	switch {
	case common.FoldEqual(s, string(common.Revenue)), common.FoldEqual(s, "revenue"):
		return common.Revenue, true
	case common.FoldEqual(s, string(common.Expenditure)), common.FoldEqual(s, "expenditure"):
		return common.Expenditure, true
	}
	return "", false
}
