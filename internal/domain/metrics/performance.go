package metrics

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
)

// PerformanceMetric is one trend line of the performance summary
type PerformanceMetric struct {
	Current       int64   `json:"current"`
	Previous      int64   `json:"previous"`
	PercentChange float64 `json:"percent_change"`
	Sparkline     []int64 `json:"sparkline"`
}

// AccountCounts holds the active/inactive account split. The counts come
// from a single grouped query; issuing two separate aggregate calls
// would break the query-count invariant.
type AccountCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// PerformanceResult is the ephemeral revenue/expense/profit summary
// computed per request
type PerformanceResult struct {
	Revenue  PerformanceMetric `json:"revenue"`
	Expenses PerformanceMetric `json:"expenses"`
	Profit   PerformanceMetric `json:"profit"`
	// Receivables is a reserved slot in the payload; the performance
	// endpoint does not query aging stats.
	Receivables AgingStats           `json:"receivables"`
	Accounts    AccountCounts        `json:"accounts"`
	Currency    valueobject.Currency `json:"currency"`
	Days        int                  `json:"days"`
}

// windowTotals holds the classified magnitudes of one transaction window
type windowTotals struct {
	revenue  int64
	expenses int64
}

// classifyWindow folds a window of transactions into revenue and expense
// magnitudes in the target currency. TRANSFER-categorized transactions
// are excluded from both sides; magnitudes are always the absolute value
// of the signed converted amount.
func classifyWindow(txns []Transaction, rates RateMap, target valueobject.Currency) windowTotals {
	var totals windowTotals
	for _, t := range txns {
		rate, _ := rates.Rate(t.Currency, target)
		magnitude := Convert(t.Amount, rate)
		switch {
		case t.IsRevenue():
			totals.revenue += magnitude
		case t.IsExpense():
			totals.expenses += magnitude
		}
	}
	return totals
}

// ComputePerformance folds the current and previous transaction windows
// into revenue, expense and profit trends. Percent change is computed
// per metric from its own previous and current values; in particular the
// profit change is not derived from the revenue and expense percentages.
// Sparklines cover the current window only.
func ComputePerformance(
	current []Transaction,
	previous []Transaction,
	days int,
	rates RateMap,
	target valueobject.Currency,
	counts AccountCounts,
	now time.Time,
) PerformanceResult {
	cur := classifyWindow(current, rates, target)
	prev := classifyWindow(previous, rates, target)

	curProfit := cur.revenue - cur.expenses
	prevProfit := prev.revenue - prev.expenses

	signed := func(t Transaction) int64 {
		rate, _ := rates.Rate(t.Currency, target)
		return ConvertSigned(t.Amount, rate)
	}
	revenueTxns := filterTransactions(current, Transaction.IsRevenue)
	expenseTxns := filterTransactions(current, Transaction.IsExpense)

	revenueSpark := AbsSeries(Sparkline(revenueTxns, days, now, signed))
	expenseSpark := AbsSeries(Sparkline(expenseTxns, days, now, signed))
	profitSpark := DiffSeries(revenueSpark, expenseSpark)

	return PerformanceResult{
		Revenue: PerformanceMetric{
			Current:       cur.revenue,
			Previous:      prev.revenue,
			PercentChange: PercentChange(prev.revenue, cur.revenue),
			Sparkline:     revenueSpark,
		},
		Expenses: PerformanceMetric{
			Current:       cur.expenses,
			Previous:      prev.expenses,
			PercentChange: PercentChange(prev.expenses, cur.expenses),
			Sparkline:     expenseSpark,
		},
		Profit: PerformanceMetric{
			Current:       curProfit,
			Previous:      prevProfit,
			PercentChange: PercentChange(prevProfit, curProfit),
			Sparkline:     profitSpark,
		},
		Accounts: counts,
		Currency: target,
		Days:     days,
	}
}

func filterTransactions(txns []Transaction, keep func(Transaction) bool) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
