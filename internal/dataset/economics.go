package dataset

import (
	"github.com/shopspring/decimal"
)

// CostItem compares the cost of one care stage on the ideal path with what it
// costs when the follow-up chain breaks.
type CostItem struct {
	Category  string  `yaml:"category" json:"category"`
	IdealCost float64 `yaml:"idealCost" json:"idealCost"`
	RealCost  float64 `yaml:"realCost" json:"realCost"`
	Note      string  `yaml:"note,omitempty" json:"note,omitempty"`
}

// CostLine is a CostItem with its overrun and the running totals used to draw
// a waterfall.
type CostLine struct {
	CostItem
	Overrun         decimal.Decimal `json:"overrun"`
	CumulativeIdeal decimal.Decimal `json:"cumulativeIdeal"`
	CumulativeReal  decimal.Decimal `json:"cumulativeReal"`
}

// CostLedger totals the cost comparison of a broken care chain.
type CostLedger struct {
	Lines       []CostLine      `json:"lines"`
	IdealTotal  decimal.Decimal `json:"idealTotal"`
	RealTotal   decimal.Decimal `json:"realTotal"`
	Overrun     decimal.Decimal `json:"overrun"`
	OverrunRate decimal.Decimal `json:"overrunRate"`
}

// Ledger builds the cost ledger of the dataset.
func (d *Dataset) Ledger() CostLedger {
	return NewCostLedger(d.Costs)
}

// NewCostLedger sums items in order. OverrunRate is the overrun as a percentage
// of the ideal total, rounded to one decimal place.
func NewCostLedger(items []CostItem) CostLedger {
	ledger := CostLedger{
		Lines:       make([]CostLine, 0, len(items)),
		IdealTotal:  decimal.Zero,
		RealTotal:   decimal.Zero,
		OverrunRate: decimal.Zero,
	}

	for _, item := range items {
		ideal := decimal.NewFromFloat(item.IdealCost)
		actual := decimal.NewFromFloat(item.RealCost)
		ledger.IdealTotal = ledger.IdealTotal.Add(ideal)
		ledger.RealTotal = ledger.RealTotal.Add(actual)
		ledger.Lines = append(ledger.Lines, CostLine{
			CostItem:        item,
			Overrun:         actual.Sub(ideal),
			CumulativeIdeal: ledger.IdealTotal,
			CumulativeReal:  ledger.RealTotal,
		})
	}

	ledger.Overrun = ledger.RealTotal.Sub(ledger.IdealTotal)
	if !ledger.IdealTotal.IsZero() {
		ledger.OverrunRate = ledger.Overrun.Div(ledger.IdealTotal).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return ledger
}

// Multiplier is how many times the real total exceeds the ideal one, rounded
// to two decimal places. It is zero when the ideal total is zero.
func (l CostLedger) Multiplier() decimal.Decimal {
	if l.IdealTotal.IsZero() {
		return decimal.Zero
	}
	return l.RealTotal.Div(l.IdealTotal).Round(2)
}
