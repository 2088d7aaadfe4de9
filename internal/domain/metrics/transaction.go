package metrics

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CategoryType represents the kind of transaction category
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "INCOME"
	CategoryTypeExpense  CategoryType = "EXPENSE"
	CategoryTypeTransfer CategoryType = "TRANSFER"
)

// IsValid returns true if the category type is one of the supported types
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer:
		return true
	}
	return false
}

// Transaction is a read model of a ledger transaction as consumed by the
// aggregation engine. Amount is signed integer minor units: positive is
// an inflow, negative an outflow, independent of category. Soft-deleted
// transactions are excluded by the upstream query and never reach here.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Amount    int64
	Currency  valueobject.Currency
	Date      time.Time
	// Category is nil for uncategorized transactions, which triggers
	// sign-based classification (the uncategorized-fallback policy).
	Category *CategoryType
}

// IsRevenue reports whether the transaction counts toward revenue.
// A transaction is revenue when its category is INCOME, or when it has
// no category and the signed amount is positive.
func (t Transaction) IsRevenue() bool {
	if t.Category != nil {
		return *t.Category == CategoryTypeIncome
	}
	return t.Amount > 0
}

// IsExpense reports whether the transaction counts toward expenses.
// A transaction is an expense when its category is EXPENSE, or when it
// has no category and the signed amount is negative.
func (t Transaction) IsExpense() bool {
	if t.Category != nil {
		return *t.Category == CategoryTypeExpense
	}
	return t.Amount < 0
}
