package budget

import (
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
)

// Kind tags a classified line.
type Kind int

const (
	NotAnItem Kind = iota
	SectionMarker
	Candidate
)

// Classification is the result of looking at one text line.
type Classification struct {
	Kind Kind
	// Section is set for SectionMarker.
	Section common.Section
	// Code, Description and AmountText are set for Candidate.
	Code        string
	Description string
	AmountText  string
}

// Source joins the optional code and the description.
func (c Classification) Source() string {
	if c.Code == "" {
		return c.Description
	}
	return c.Code + " " + c.Description
}

// Classify tags a trimmed line. Section markers take priority; item shapes
// are only recognised once a section is open.
func Classify(line string, section common.Section, kw common.Keywords) Classification {
	if kw.Revenue != "" && strings.Contains(line, kw.Revenue) {
		return Classification{Kind: SectionMarker, Section: common.InRevenue}
	}
	if kw.Expenditure != "" && strings.Contains(line, kw.Expenditure) {
		return Classification{Kind: SectionMarker, Section: common.InExpenditure}
	}
	if section == common.NoSection {
		return Classification{Kind: NotAnItem}
	}

	fields := strings.Fields(line)
	var code string
	if len(fields) > 0 && common.IsCode(fields[0]) {
		code, fields = fields[0], fields[1:]
	}
	if len(fields) < 2 {
		return Classification{Kind: NotAnItem}
	}

	last := fields[len(fields)-1]
	if !common.IsAmountToken(last) {
		return Classification{Kind: NotAnItem}
	}

	return Classification{
		Kind:        Candidate,
		Code:        code,
		Description: strings.Join(fields[:len(fields)-1], " "),
		AmountText:  last,
	}
}
