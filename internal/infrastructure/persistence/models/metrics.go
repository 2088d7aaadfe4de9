package models

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountModel is the persistence model for financial accounts.
type AccountModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_accounts_tenant"`
	EntityID       *uuid.UUID `gorm:"type:uuid;index"`
	Name           string     `gorm:"type:varchar(200);not null"`
	Type           string     `gorm:"type:varchar(30);not null;index"`
	Currency       string     `gorm:"type:char(3);not null"`
	CurrentBalance int64      `gorm:"not null;default:0"`
	IsActive       bool       `gorm:"not null;default:true;index"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
	DeletedAt      gorm.DeletedAt
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to the domain read model.
func (m *AccountModel) ToDomain() metrics.Account {
	return metrics.Account{
		ID:             m.ID,
		EntityID:       m.EntityID,
		Type:           metrics.AccountType(m.Type),
		Currency:       valueobject.Currency(m.Currency),
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
	}
}

// CategoryModel is the persistence model for transaction categories.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Type      string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// TransactionModel is the persistence model for ledger transactions.
// Amounts are stored in minor units; the category link is optional
// because imported transactions start uncategorized.
type TransactionModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_transactions_tenant_date,priority:1"`
	EntityID    *uuid.UUID `gorm:"type:uuid;index"`
	AccountID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount      int64      `gorm:"not null"`
	Currency    string     `gorm:"type:char(3);not null"`
	Date        time.Time  `gorm:"not null;index:idx_transactions_tenant_date,priority:2"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Description string     `gorm:"type:varchar(500)"`
	Reconciled  bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ExchangeRateModel stores one row per currency pair, updated in place
// as fresh rates arrive.
type ExchangeRateModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	FromCurrency string          `gorm:"type:char(3);not null;uniqueIndex:idx_exchange_rates_pair,priority:1"`
	ToCurrency   string          `gorm:"type:char(3);not null;uniqueIndex:idx_exchange_rates_pair,priority:2"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	AsOf         time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// InvoiceModel is the persistence model for customer invoices (receivables).
type InvoiceModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	EntityID          *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceNumber     string     `gorm:"type:varchar(50);not null"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	Currency          string     `gorm:"type:char(3);not null"`
	TotalAmount       int64      `gorm:"not null"`
	OutstandingAmount int64      `gorm:"not null"`
	DueDate           *time.Time `gorm:"index"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
	DeletedAt         gorm.DeletedAt
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// BillModel is the persistence model for vendor bills (payables).
type BillModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	EntityID          *uuid.UUID `gorm:"type:uuid;index"`
	BillNumber        string     `gorm:"type:varchar(50);not null"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	Currency          string     `gorm:"type:char(3);not null"`
	TotalAmount       int64      `gorm:"not null"`
	OutstandingAmount int64      `gorm:"not null"`
	DueDate           *time.Time `gorm:"index"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
	DeletedAt         gorm.DeletedAt
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// AccountingPeriodModel tracks sub-period lock state for month-end close.
type AccountingPeriodModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	EntityID  *uuid.UUID `gorm:"type:uuid;index"`
	StartDate time.Time  `gorm:"not null"`
	EndDate   time.Time  `gorm:"not null"`
	Status    string     `gorm:"type:varchar(20);not null;index"` // open, closed
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountingPeriodModel) TableName() string {
	return "accounting_periods"
}
