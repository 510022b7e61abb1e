// Package aggregate builds the summary tables of the budget: revenue by
// category (Article 1), expenditure by ministry (Article 2), the balance
// verdict and the filtered views used by the interactive queries.
package aggregate

import (
	"sort"
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/shopspring/decimal"
)

type Category struct {
	Code   string          `json:"code"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type CategoryTable struct {
	Categories []Category      `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

type MinistryTotal struct {
	Ministry string          `json:"ministry"`
	Total    decimal.Decimal `json:"total"`
}

type MinistryTable struct {
	Ministries []MinistryTotal `json:"ministries"`
	Total      decimal.Decimal `json:"total"`
}

// Article1 keeps the first revenue line of every two-digit category code.
// Later lines with an already seen code are ignored, and so is every line
// whose leading code is not exactly two digits.
func Article1(lines []common.BudgetLine) CategoryTable {
	table := CategoryTable{Categories: []Category{}, Total: decimal.Zero}
	seen := map[string]bool{}

	for _, l := range lines {
		if l.Type != common.Revenue {
			continue
		}
		code := common.LeadingDigits(l.Source)
		if len(code) != 2 || seen[code] {
			continue
		}
		seen[code] = true

		table.Categories = append(table.Categories, Category{
			Code:   code,
			Label:  strings.TrimSpace(l.Source[len(code):]),
			Amount: l.Amount,
		})
		table.Total = table.Total.Add(l.Amount)
	}
	return table
}

// Article2 sums every expenditure line per ministry. Rows are ordered by
// ministry name in byte order.
func Article2(lines []common.BudgetLine) MinistryTable {
	table := MinistryTable{Ministries: []MinistryTotal{}, Total: decimal.Zero}
	sums := map[string]decimal.Decimal{}

	for _, l := range lines {
		if l.Type != common.Expenditure {
			continue
		}
		key := l.MinistryOrDefault()
		sums[key] = sums[key].Add(l.Amount)
		table.Total = table.Total.Add(l.Amount)
	}

	for ministry, total := range sums {
		table.Ministries = append(table.Ministries, MinistryTotal{Ministry: ministry, Total: total})
	}
	sort.Slice(table.Ministries, func(i, j int) bool {
		return table.Ministries[i].Ministry < table.Ministries[j].Ministry
	})
	return table
}

// Summary bundles the two articles and the verdict.
type Summary struct {
	Revenue     CategoryTable `json:"revenue"`
	Expenditure MinistryTable `json:"expenditure"`
	Balance     BalanceResult `json:"balance"`
}

func Summarize(lines []common.BudgetLine) Summary {
	revenue := Article1(lines)
	expenditure := Article2(lines)
	return Summary{
		Revenue:     revenue,
		Expenditure: expenditure,
		Balance:     Balance(revenue.Total, expenditure.Total),
	}
}
