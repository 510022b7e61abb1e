package budget

import (
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
)

// Item is a candidate line-item together with the context it was found in.
type Item struct {
	Page     int
	Row      int
	Type     common.EntryType
	Ministry string
	Source   string
	Amount   string
}

// Scanner tracks the open section across the pages of one run.
type Scanner struct {
	keywords common.Keywords
	section  common.Section
}

func NewScanner(kw common.Keywords) *Scanner {
	return &Scanner{keywords: kw}
}

// Section returns the currently open section.
func (s *Scanner) Section() common.Section {
	return s.section
}

// ScanPage walks the plain lines of a page and returns the accepted candidates,
// each tagged with the section open at that point and the page ministry.
func (s *Scanner) ScanPage(page int, lines []string, ministry string) []Item {
	var items []Item
	for i, raw := range lines {
		line := common.NFC(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		c := Classify(line, s.section, s.keywords)
		switch c.Kind {
		case SectionMarker:
			s.section = c.Section
		case Candidate:
			items = append(items, Item{
				Page:     page,
				Row:      i + 1,
				Type:     s.section.EntryType(),
				Ministry: ministry,
				Source:   c.Source(),
				Amount:   c.AmountText,
			})
		}
	}
	return items
}
