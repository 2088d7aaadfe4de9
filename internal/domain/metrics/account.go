package metrics

import (
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AccountType represents the kind of financial account
type AccountType string

const (
	AccountTypeBank       AccountType = "BANK"
	AccountTypeInvestment AccountType = "INVESTMENT"
	AccountTypeCreditCard AccountType = "CREDIT_CARD"
	AccountTypeLoan       AccountType = "LOAN"
	AccountTypeMortgage   AccountType = "MORTGAGE"
)

// AllAccountTypes returns every supported account type
func AllAccountTypes() []AccountType {
	return []AccountType{
		AccountTypeBank,
		AccountTypeInvestment,
		AccountTypeCreditCard,
		AccountTypeLoan,
		AccountTypeMortgage,
	}
}

// IsValid returns true if the account type is one of the supported types
func (t AccountType) IsValid() bool {
	_, ok := classificationTable[t]
	return ok
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// Account is a read model of a financial account as consumed by the
// aggregation engine. Balances are integer minor units and are never
// mutated here. Inactive accounts are filtered by the upstream query.
type Account struct {
	ID             uuid.UUID
	EntityID       *uuid.UUID
	Type           AccountType
	Currency       valueobject.Currency
	CurrentBalance int64
	IsActive       bool
}

// Classification describes how an account type participates in the
// net worth and cash position aggregates
type Classification struct {
	IsAsset      bool
	IsLiability  bool
	CountsAsCash bool
	CountsAsDebt bool
}

// classificationTable is the exhaustive lookup over all account types.
// CountsAsCash is a necessary condition only: the aggregator additionally
// requires the raw balance to be strictly positive before counting cash.
var classificationTable = map[AccountType]Classification{
	AccountTypeBank:       {IsAsset: true, CountsAsCash: true},
	AccountTypeInvestment: {IsAsset: true},
	AccountTypeCreditCard: {IsLiability: true, CountsAsDebt: true},
	AccountTypeLoan:       {IsLiability: true, CountsAsDebt: true},
	AccountTypeMortgage:   {IsLiability: true},
}

// Classify maps an account type to its aggregate classification.
// Unknown types classify as neither asset nor liability and are
// excluded from every total.
func Classify(t AccountType) Classification {
	return classificationTable[t]
}
