package common

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EntryType is the language-local label written to the type column.
type EntryType string

const (
	Revenue     EntryType = "Έσοδα"
	Expenditure EntryType = "Έξοδα"
)

// NoMinistry marks lines that carry no agency breakdown.
const NoMinistry = "-"

func (t EntryType) Valid() bool {
	return t == Revenue || t == Expenditure
}

// BudgetLine is one normalized line-item of the budget document.
type BudgetLine struct {
	LineNumber int             `json:"line_number"`
	Type       EntryType       `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Ministry   string          `json:"ministry"`
	Source     string          `json:"source"`
}

// MinistryOrDefault returns the ministry, or NoMinistry when it is blank.
func (l BudgetLine) MinistryOrDefault() string {
	if strings.TrimSpace(l.Ministry) == "" {
		return NoMinistry
	}
	return l.Ministry
}

// Keywords are the section marker words looked up in each line.
type Keywords struct {
	Revenue     string `mapstructure:"revenue"`
	Expenditure string `mapstructure:"expenditure"`
}

// Section is the state of the section tracker.
type Section int

const (
	NoSection Section = iota
	InRevenue
	InExpenditure
)

// EntryType maps a section to the type its lines receive.
func (s Section) EntryType() EntryType {
	switch s {
	case InRevenue:
		return Revenue
	case InExpenditure:
		return Expenditure
	}
	return ""
}

func (s Section) String() string {
	switch s {
	case InRevenue:
		return "revenue"
	case InExpenditure:
		return "expenditure"
	}
	return "none"
}
