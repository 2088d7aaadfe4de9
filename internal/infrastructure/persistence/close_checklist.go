package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCloseChecklistEvaluator builds the month-end close checklist from
// ledger counts. Blocking signals (unreconciled transactions, still-open
// earlier sub-periods) fail the check; hygiene signals (uncategorized
// transactions, unposted invoices and bills) only warn.
type GormCloseChecklistEvaluator struct {
	db *gorm.DB
}

// NewGormCloseChecklistEvaluator creates a new GormCloseChecklistEvaluator
func NewGormCloseChecklistEvaluator(db *gorm.DB) *GormCloseChecklistEvaluator {
	return &GormCloseChecklistEvaluator{db: db}
}

// EvaluateChecklist counts period-health signals for [periodStart, periodEnd].
// Item order is fixed so the checklist renders stably.
func (e *GormCloseChecklistEvaluator) EvaluateChecklist(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, periodStart, periodEnd time.Time) ([]metrics.ChecklistItem, error) {
	unreconciled, err := e.countTransactions(ctx, tenantID, entityID, periodStart, periodEnd, "reconciled = ?", false)
	if err != nil {
		return nil, err
	}

	uncategorized, err := e.countTransactions(ctx, tenantID, entityID, periodStart, periodEnd, "category_id IS NULL")
	if err != nil {
		return nil, err
	}

	draftInvoices, err := e.countDrafts(ctx, &models.InvoiceModel{}, tenantID, entityID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	draftBills, err := e.countDrafts(ctx, &models.BillModel{}, tenantID, entityID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	var openPeriods int64
	q := scopeTenant(e.db.WithContext(ctx).Model(&models.AccountingPeriodModel{}), tenantID, entityID).
		Where("status = ?", "open").
		Where("end_date < ?", periodStart)
	if err := q.Count(&openPeriods).Error; err != nil {
		return nil, err
	}

	return []metrics.ChecklistItem{
		blockingItem("Unreconciled transactions", unreconciled,
			"All transactions in the period must be reconciled before close"),
		hygieneItem("Uncategorized transactions", uncategorized,
			"Uncategorized transactions distort revenue and expense totals"),
		hygieneItem("Unposted invoices", draftInvoices,
			"Draft invoices dated in the period are not reflected in receivables"),
		hygieneItem("Unposted bills", draftBills,
			"Draft bills dated in the period are not reflected in payables"),
		blockingItem("Open prior sub-periods", openPeriods,
			"Earlier sub-periods must be closed first"),
	}, nil
}

func (e *GormCloseChecklistEvaluator) countTransactions(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, periodStart, periodEnd time.Time, cond string, args ...any) (int64, error) {
	var count int64
	q := scopeTenant(e.db.WithContext(ctx).Model(&models.TransactionModel{}), tenantID, entityID).
		Where("date >= ? AND date <= ?", periodStart, periodEnd).
		Where(cond, args...)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e *GormCloseChecklistEvaluator) countDrafts(ctx context.Context, model any, tenantID uuid.UUID, entityID *uuid.UUID, periodStart, periodEnd time.Time) (int64, error) {
	var count int64
	q := scopeTenant(e.db.WithContext(ctx).Model(model), tenantID, entityID).
		Where("status = ?", "draft").
		Where("created_at >= ? AND created_at <= ?", periodStart, periodEnd)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func blockingItem(label string, count int64, details string) metrics.ChecklistItem {
	item := metrics.ChecklistItem{Label: label, Status: metrics.CheckStatusPass, Count: count}
	if count > 0 {
		item.Status = metrics.CheckStatusFail
		item.Details = fmt.Sprintf("%s (%d found)", details, count)
	}
	return item
}

func hygieneItem(label string, count int64, details string) metrics.ChecklistItem {
	item := metrics.ChecklistItem{Label: label, Status: metrics.CheckStatusPass, Count: count}
	if count > 0 {
		item.Status = metrics.CheckStatusWarn
		item.Details = fmt.Sprintf("%s (%d found)", details, count)
	}
	return item
}
