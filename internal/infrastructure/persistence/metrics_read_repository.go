package persistence

import (
	"context"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMetricsReadRepository implements the dashboard's read interfaces
// (AccountReader, TransactionReader, AgingStatsReader) using GORM. All
// queries are tenant-scoped; the optional entity filter narrows to one
// legal entity within the tenant.
type GormMetricsReadRepository struct {
	db *gorm.DB

	now func() time.Time
}

// NewGormMetricsReadRepository creates a new GormMetricsReadRepository
func NewGormMetricsReadRepository(db *gorm.DB) *GormMetricsReadRepository {
	return &GormMetricsReadRepository{db: db, now: time.Now}
}

func scopeTenant(q *gorm.DB, tenantID uuid.UUID, entityID *uuid.UUID) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if entityID != nil {
		q = q.Where("entity_id = ?", *entityID)
	}
	return q
}

// ListActiveAccounts returns all non-deleted active accounts for the tenant
func (r *GormMetricsReadRepository) ListActiveAccounts(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) ([]metrics.Account, error) {
	var accountModels []models.AccountModel
	q := scopeTenant(r.db.WithContext(ctx), tenantID, entityID).
		Where("is_active = ?", true)
	if err := q.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]metrics.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// CountAccountsByStatus returns total/active/inactive counts from a
// single grouped query.
func (r *GormMetricsReadRepository) CountAccountsByStatus(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (metrics.AccountCounts, error) {
	type statusCount struct {
		IsActive bool
		Count    int64
	}

	var rows []statusCount
	q := scopeTenant(r.db.WithContext(ctx).Model(&models.AccountModel{}), tenantID, entityID).
		Select("is_active, COUNT(*) as count").
		Group("is_active")
	if err := q.Find(&rows).Error; err != nil {
		return metrics.AccountCounts{}, err
	}

	var counts metrics.AccountCounts
	for _, row := range rows {
		counts.Total += row.Count
		if row.IsActive {
			counts.Active += row.Count
		} else {
			counts.Inactive += row.Count
		}
	}
	return counts, nil
}

// transactionRow carries one transaction joined with its category type.
type transactionRow struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Amount       int64
	Currency     string
	Date         time.Time
	CategoryType *string
}

// ListTransactionsInWindow returns the tenant's transactions inside the
// window, joined to their category type and ordered by date ascending so
// downstream bucketing sees a stable order. Soft-deleted rows are
// excluded by the gorm.DeletedAt column.
func (r *GormMetricsReadRepository) ListTransactionsInWindow(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, window metrics.Window) ([]metrics.Transaction, error) {
	q := scopeTenant(r.db.WithContext(ctx).Model(&models.TransactionModel{}), tenantID, entityID).
		Select("transactions.id, transactions.account_id, transactions.amount, transactions.currency, transactions.date, categories.type as category_type").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.date >= ?", window.Start)
	if window.EndExclusive {
		q = q.Where("transactions.date < ?", window.End)
	} else {
		q = q.Where("transactions.date <= ?", window.End)
	}
	q = q.Order("transactions.date ASC")

	var rows []transactionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	transactions := make([]metrics.Transaction, len(rows))
	for i, row := range rows {
		txn := metrics.Transaction{
			ID:        row.ID,
			AccountID: row.AccountID,
			Amount:    row.Amount,
			Currency:  valueobject.Currency(row.Currency),
			Date:      row.Date,
		}
		if row.CategoryType != nil {
			category := metrics.CategoryType(*row.CategoryType)
			txn.Category = &category
		}
		transactions[i] = txn
	}
	return transactions, nil
}

// agingRow carries the aggregated outstanding/overdue sums for one query.
type agingRow struct {
	Outstanding int64
	Overdue     int64
}

// ReceivableStats aggregates open invoice amounts in one query; overdue
// is the subset whose due date has passed.
func (r *GormMetricsReadRepository) ReceivableStats(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (metrics.AgingStats, error) {
	return r.agingStats(ctx, &models.InvoiceModel{}, tenantID, entityID)
}

// PayableStats aggregates open bill amounts in one query
func (r *GormMetricsReadRepository) PayableStats(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (metrics.AgingStats, error) {
	return r.agingStats(ctx, &models.BillModel{}, tenantID, entityID)
}

func (r *GormMetricsReadRepository) agingStats(ctx context.Context, model any, tenantID uuid.UUID, entityID *uuid.UUID) (metrics.AgingStats, error) {
	var row agingRow
	q := scopeTenant(r.db.WithContext(ctx).Model(model), tenantID, entityID).
		Select(
			"COALESCE(SUM(outstanding_amount), 0) as outstanding, "+
				"COALESCE(SUM(CASE WHEN due_date IS NOT NULL AND due_date < ? THEN outstanding_amount ELSE 0 END), 0) as overdue",
			r.now(),
		).
		Where("status = ?", "open")
	if err := q.Scan(&row).Error; err != nil {
		return metrics.AgingStats{}, err
	}

	return metrics.AgingStats{Outstanding: row.Outstanding, Overdue: row.Overdue}, nil
}
