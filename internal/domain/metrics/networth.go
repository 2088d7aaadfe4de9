package metrics

import (
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
)

// CashPosition summarizes liquid cash against short-term debt, all in
// minor units of the target currency
type CashPosition struct {
	Cash     int64                `json:"cash"`
	Debt     int64                `json:"debt"`
	Net      int64                `json:"net"`
	Currency valueobject.Currency `json:"currency"`
}

// AccountsSummary counts the accounts feeding the balance aggregate
type AccountsSummary struct {
	Total  int                 `json:"total"`
	Active int                 `json:"active"`
	ByType map[AccountType]int `json:"by_type"`
}

// AgingStats carries outstanding and overdue totals for receivables or
// payables, passed through unchanged from the billing collaborators
type AgingStats struct {
	Outstanding int64 `json:"outstanding"`
	Overdue     int64 `json:"overdue"`
}

// MetricsResult is the ephemeral balance summary computed per request.
// It is never persisted; every call recomputes from source data.
type MetricsResult struct {
	NetWorth        valueobject.Money `json:"net_worth"`
	CashPosition    CashPosition      `json:"cash_position"`
	AccountsSummary AccountsSummary   `json:"accounts_summary"`
	Receivables     AgingStats        `json:"receivables"`
	Payables        AgingStats        `json:"payables"`
}

// ComputeBalanceMetrics folds the account list into net worth and cash
// position totals in the target currency. It iterates the accounts once,
// converting each balance via the rate map and classifying via the
// account type table.
//
// Net worth accumulates the absolute converted value of every asset and
// liability account regardless of balance sign: an overdrawn BANK
// account still contributes |balance| to assets. This mirrors the source
// system and is preserved as a product decision. Counting toward cash
// additionally requires the raw, unconverted balance to be strictly
// positive, so that same overdrawn account contributes to assets but not
// to cash.
func ComputeBalanceMetrics(
	accounts []Account,
	rates RateMap,
	target valueobject.Currency,
	receivables AgingStats,
	payables AgingStats,
) MetricsResult {
	totalAssets := valueobject.Zero(target)
	totalLiabilities := valueobject.Zero(target)
	totalCash := valueobject.Zero(target)
	totalDebt := valueobject.Zero(target)

	byType := make(map[AccountType]int)

	for _, a := range accounts {
		byType[a.Type]++

		rate, _ := rates.Rate(a.Currency, target)
		converted := valueobject.MustNewMoney(Convert(a.CurrentBalance, rate), target)

		c := Classify(a.Type)
		if c.IsAsset {
			totalAssets = totalAssets.MustAdd(converted)
			if c.CountsAsCash && a.CurrentBalance > 0 {
				totalCash = totalCash.MustAdd(converted)
			}
		}
		if c.IsLiability {
			totalLiabilities = totalLiabilities.MustAdd(converted)
			if c.CountsAsDebt {
				totalDebt = totalDebt.MustAdd(converted)
			}
		}
	}

	return MetricsResult{
		NetWorth: totalAssets.MustSubtract(totalLiabilities),
		CashPosition: CashPosition{
			Cash:     totalCash.Amount(),
			Debt:     totalDebt.Amount(),
			Net:      totalCash.MustSubtract(totalDebt).Amount(),
			Currency: target,
		},
		AccountsSummary: AccountsSummary{
			Total:  len(accounts),
			Active: len(accounts),
			ByType: byType,
		},
		Receivables: receivables,
		Payables:    payables,
	}
}
