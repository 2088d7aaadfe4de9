package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccountReader struct {
	accounts []metrics.Account
	counts   metrics.AccountCounts
	listErr  error
	countErr error

	listCalls  int
	countCalls int
}

func (f *fakeAccountReader) ListActiveAccounts(_ context.Context, _ uuid.UUID, _ *uuid.UUID) ([]metrics.Account, error) {
	f.listCalls++
	return f.accounts, f.listErr
}

func (f *fakeAccountReader) CountAccountsByStatus(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (metrics.AccountCounts, error) {
	f.countCalls++
	return f.counts, f.countErr
}

type fakeTransactionReader struct {
	current  []metrics.Transaction
	previous []metrics.Transaction
	err      error

	calls int
}

func (f *fakeTransactionReader) ListTransactionsInWindow(_ context.Context, _ uuid.UUID, _ *uuid.UUID, window metrics.Window) ([]metrics.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if window.EndExclusive {
		return f.previous, nil
	}
	return f.current, nil
}

type fakeAgingRepo struct {
	receivables metrics.AgingStats
	payables    metrics.AgingStats
	err         error
}

func (f *fakeAgingRepo) ReceivableStats(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (metrics.AgingStats, error) {
	return f.receivables, f.err
}

func (f *fakeAgingRepo) PayableStats(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (metrics.AgingStats, error) {
	return f.payables, f.err
}

type fakeRateProvider struct {
	rates metrics.RateMap
	err   error

	calls    int
	gotPairs []metrics.RatePair
}

func (f *fakeRateProvider) GetRateBatch(_ context.Context, pairs []metrics.RatePair) (metrics.RateMap, error) {
	f.calls++
	f.gotPairs = pairs
	return f.rates, f.err
}

type fakeFallbackRecorder struct {
	pairs [][2]string
}

func (f *fakeFallbackRecorder) RecordFXFallback(from, to string) {
	f.pairs = append(f.pairs, [2]string{from, to})
}

type fakeChecklistEvaluator struct {
	items []metrics.ChecklistItem
	err   error
}

func (f *fakeChecklistEvaluator) EvaluateChecklist(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _, _ time.Time) ([]metrics.ChecklistItem, error) {
	return f.items, f.err
}

func fixedClock() func() time.Time {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newTestService(
	accounts *fakeAccountReader,
	txns *fakeTransactionReader,
	aging *fakeAgingRepo,
	rates *fakeRateProvider,
	checklist *fakeChecklistEvaluator,
) *DashboardService {
	return NewDashboardService(accounts, txns, aging, rates, checklist, zap.NewNop(), WithClock(fixedClock()))
}

func usdAccount(accountType metrics.AccountType, balance int64) metrics.Account {
	return metrics.Account{
		ID:             uuid.New(),
		Type:           accountType,
		Currency:       valueobject.USD,
		CurrentBalance: balance,
		IsActive:       true,
	}
}

func TestGetMetrics(t *testing.T) {
	tenantID := uuid.New()

	t.Run("folds accounts into balance metrics", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			usdAccount(metrics.AccountTypeBank, 500000),
			usdAccount(metrics.AccountTypeBank, 300000),
			usdAccount(metrics.AccountTypeCreditCard, 150000),
		}}
		aging := &fakeAgingRepo{
			receivables: metrics.AgingStats{Outstanding: 120000, Overdue: 40000},
			payables:    metrics.AgingStats{Outstanding: 90000},
		}
		rates := &fakeRateProvider{}
		svc := newTestService(accounts, &fakeTransactionReader{}, aging, rates, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, int64(650000), result.NetWorth.Amount())
		assert.Equal(t, int64(800000), result.CashPosition.Cash)
		assert.Equal(t, int64(150000), result.CashPosition.Debt)
		assert.Equal(t, int64(650000), result.CashPosition.Net)
		assert.Equal(t, metrics.AgingStats{Outstanding: 120000, Overdue: 40000}, result.Receivables)
	})

	t.Run("fetches the rate batch exactly once", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			{Type: metrics.AccountTypeBank, Currency: valueobject.CAD, CurrentBalance: 100000, IsActive: true},
			{Type: metrics.AccountTypeBank, Currency: valueobject.EUR, CurrentBalance: 200000, IsActive: true},
			{Type: metrics.AccountTypeBank, Currency: valueobject.CAD, CurrentBalance: 50000, IsActive: true},
			{Type: metrics.AccountTypeBank, Currency: valueobject.USD, CurrentBalance: 50000, IsActive: true},
		}}
		rates := &fakeRateProvider{rates: metrics.RateMap{
			"CAD_USD": decimal.NewFromFloat(0.74),
			"EUR_USD": decimal.NewFromFloat(1.08),
		}}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, 1, rates.calls, "rate batch must be fetched exactly once")
		assert.Len(t, rates.gotPairs, 2, "same-currency and duplicate pairs are collapsed")
		// 74000 + 216000 + 37000 + 50000
		assert.Equal(t, int64(377000), result.NetWorth.Amount())
	})

	t.Run("single-currency tenant still issues exactly one batch call", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			usdAccount(metrics.AccountTypeBank, 100000),
		}}
		rates := &fakeRateProvider{}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		_, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, 1, rates.calls)
		assert.Empty(t, rates.gotPairs)
	})

	t.Run("missing rates degrade to 1.0 instead of failing", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			{Type: metrics.AccountTypeBank, Currency: valueobject.GBP, CurrentBalance: 70000, IsActive: true},
		}}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		require.NoError(t, err)
		assert.Equal(t, int64(70000), result.NetWorth.Amount())
	})

	t.Run("missing rates are counted per pair", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			{Type: metrics.AccountTypeBank, Currency: valueobject.GBP, CurrentBalance: 70000, IsActive: true},
			{Type: metrics.AccountTypeBank, Currency: valueobject.EUR, CurrentBalance: 10000, IsActive: true},
		}}
		recorder := &fakeFallbackRecorder{}
		svc := NewDashboardService(
			accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, &fakeChecklistEvaluator{},
			zap.NewNop(), WithClock(fixedClock()), WithFallbackRecorder(recorder),
		)

		_, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		require.NoError(t, err)
		assert.ElementsMatch(t, [][2]string{{"GBP", "USD"}, {"EUR", "USD"}}, recorder.pairs)
	})

	t.Run("account read failure aborts the whole request", func(t *testing.T) {
		accounts := &fakeAccountReader{listErr: errors.New("connection reset")}
		rates := &fakeRateProvider{}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		assert.Error(t, err)
		assert.Nil(t, result, "no partial result on upstream failure")
		assert.Zero(t, rates.calls, "rate batch is not fetched after a failed read")
	})

	t.Run("aging stats read failure aborts the whole request", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{usdAccount(metrics.AccountTypeBank, 1)}}
		aging := &fakeAgingRepo{err: errors.New("timeout")}
		svc := newTestService(accounts, &fakeTransactionReader{}, aging, &fakeRateProvider{}, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("rate batch failure aborts the whole request", func(t *testing.T) {
		accounts := &fakeAccountReader{accounts: []metrics.Account{
			{Type: metrics.AccountTypeBank, Currency: valueobject.EUR, CurrentBalance: 1, IsActive: true},
		}}
		rates := &fakeRateProvider{err: errors.New("rate store down")}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, valueobject.USD)
		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty target currency defaults", func(t *testing.T) {
		accounts := &fakeAccountReader{}
		svc := newTestService(accounts, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, &fakeChecklistEvaluator{})

		result, err := svc.GetMetrics(context.Background(), tenantID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, valueobject.DefaultCurrency, result.NetWorth.Currency())
	})
}

func TestGetPerformance(t *testing.T) {
	tenantID := uuid.New()
	now := fixedClock()()

	income := metrics.CategoryTypeIncome

	t.Run("computes revenue trend with percent change", func(t *testing.T) {
		txns := &fakeTransactionReader{
			current: []metrics.Transaction{
				{Amount: 50000, Currency: valueobject.USD, Date: now.AddDate(0, 0, -1), Category: &income},
				{Amount: 30000, Currency: valueobject.USD, Date: now.AddDate(0, 0, -3), Category: &income},
			},
			previous: []metrics.Transaction{
				{Amount: 40000, Currency: valueobject.USD, Date: now.AddDate(0, 0, -35), Category: &income},
			},
		}
		accounts := &fakeAccountReader{counts: metrics.AccountCounts{Total: 5, Active: 4, Inactive: 1}}
		rates := &fakeRateProvider{}
		svc := newTestService(accounts, txns, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		result, err := svc.GetPerformance(context.Background(), tenantID, nil, metrics.Period30d, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, int64(80000), result.Revenue.Current)
		assert.Equal(t, int64(40000), result.Revenue.Previous)
		assert.Equal(t, float64(100), result.Revenue.PercentChange)
		assert.Equal(t, metrics.AccountCounts{Total: 5, Active: 4, Inactive: 1}, result.Accounts)
		assert.Equal(t, 1, rates.calls)
		assert.Equal(t, 2, txns.calls, "one read per window")
		assert.Equal(t, 1, accounts.countCalls, "account counts use a single grouped query")
	})

	t.Run("invalid period fails fast before any read", func(t *testing.T) {
		txns := &fakeTransactionReader{}
		rates := &fakeRateProvider{}
		svc := newTestService(&fakeAccountReader{}, txns, &fakeAgingRepo{}, rates, &fakeChecklistEvaluator{})

		_, err := svc.GetPerformance(context.Background(), tenantID, nil, metrics.Period("7d"), valueobject.USD)
		assert.Error(t, err)
		assert.Zero(t, txns.calls)
		assert.Zero(t, rates.calls)
	})

	t.Run("transaction read failure aborts the whole request", func(t *testing.T) {
		txns := &fakeTransactionReader{err: errors.New("query failed")}
		svc := newTestService(&fakeAccountReader{}, txns, &fakeAgingRepo{}, &fakeRateProvider{}, &fakeChecklistEvaluator{})

		result, err := svc.GetPerformance(context.Background(), tenantID, nil, metrics.Period30d, valueobject.USD)
		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("zero transactions produce a well-formed zero result", func(t *testing.T) {
		svc := newTestService(&fakeAccountReader{}, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, &fakeChecklistEvaluator{})

		result, err := svc.GetPerformance(context.Background(), tenantID, nil, metrics.Period90d, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, int64(0), result.Revenue.Current)
		assert.Len(t, result.Revenue.Sparkline, metrics.SparklinePoints)
		assert.Len(t, result.Profit.Sparkline, metrics.SparklinePoints)
	})
}

func TestGetCloseReadiness(t *testing.T) {
	tenantID := uuid.New()
	periodStart := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)

	t.Run("scores the evaluated checklist", func(t *testing.T) {
		checklist := &fakeChecklistEvaluator{items: []metrics.ChecklistItem{
			{Label: "Unreconciled transactions", Status: metrics.CheckStatusPass},
			{Label: "Uncategorized transactions", Status: metrics.CheckStatusWarn, Count: 3},
			{Label: "Open sub-periods", Status: metrics.CheckStatusFail, Count: 1},
		}}
		svc := newTestService(&fakeAccountReader{}, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, checklist)

		result, err := svc.GetCloseReadiness(context.Background(), tenantID, nil, periodStart, periodEnd)
		require.NoError(t, err)

		assert.Equal(t, 50, result.Score)
		assert.False(t, result.CanClose)
		assert.Len(t, result.Items, 3)
	})

	t.Run("checklist evaluation failure propagates", func(t *testing.T) {
		checklist := &fakeChecklistEvaluator{err: errors.New("ledger unavailable")}
		svc := newTestService(&fakeAccountReader{}, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, checklist)

		result, err := svc.GetCloseReadiness(context.Background(), tenantID, nil, periodStart, periodEnd)
		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("custom score policy applies", func(t *testing.T) {
		checklist := &fakeChecklistEvaluator{items: []metrics.ChecklistItem{
			{Label: "Uncategorized transactions", Status: metrics.CheckStatusWarn},
		}}
		svc := NewDashboardService(
			&fakeAccountReader{}, &fakeTransactionReader{}, &fakeAgingRepo{}, &fakeRateProvider{}, checklist,
			zap.NewNop(),
			WithScorePolicy(metrics.ScorePolicy{PassCredit: 1, WarnCredit: 0, FailCredit: 0}),
		)

		result, err := svc.GetCloseReadiness(context.Background(), tenantID, nil, periodStart, periodEnd)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.True(t, result.CanClose)
	})
}
