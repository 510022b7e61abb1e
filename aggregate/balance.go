package aggregate

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Verdict int

const (
	Balanced Verdict = iota
	Surplus
	Deficit
)

// Label is the wording printed under the result line.
func (v Verdict) Label() string {
	switch v {
	case Surplus:
		return "ΠΛΕΟΝΑΣΜΑΤΙΚΟΣ"
	case Deficit:
		return "ΕΛΛΕΙΜΜΑΤΙΚΟΣ"
	}
	return "ΙΣΟΖΥΓΙΣΜΕΝΟΣ"
}

func (v Verdict) String() string {
	switch v {
	case Surplus:
		return "SURPLUS"
	case Deficit:
		return "DEFICIT"
	}
	return "BALANCED"
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

type BalanceResult struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Expenditure decimal.Decimal `json:"expenditure"`
	Result      decimal.Decimal `json:"result"`
	Verdict     Verdict         `json:"verdict"`
}

// Balance computes revenue minus expenditure and its verdict.
func Balance(revenue, expenditure decimal.Decimal) BalanceResult {
	result := revenue.Sub(expenditure)
	verdict := Balanced
	switch result.Sign() {
	case 1:
		verdict = Surplus
	case -1:
		verdict = Deficit
	}
	return BalanceResult{
		Revenue:     revenue,
		Expenditure: expenditure,
		Result:      result,
		Verdict:     verdict,
	}
}
