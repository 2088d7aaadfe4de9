package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FallbackRecorder counts conversions that degraded to the 1.0 rate
// because the batch result was missing the pair. Satisfied by the
// telemetry collector.
type FallbackRecorder interface {
	RecordFXFallback(from, to string)
}

// DashboardService computes tenant-scoped financial summaries. All
// results are recomputed from source data on every call; the service
// holds no cache and no mutable state.
type DashboardService struct {
	accountRepo     metrics.AccountReader
	transactionRepo metrics.TransactionReader
	agingRepo       metrics.AgingStatsReader
	rateProvider    metrics.RateProvider
	checklist       metrics.CloseChecklistEvaluator
	scorePolicy     metrics.ScorePolicy
	fallbacks       FallbackRecorder
	logger          *zap.Logger
	now             func() time.Time
}

// DashboardServiceOption is a functional option for configuring DashboardService
type DashboardServiceOption func(*DashboardService)

// WithScorePolicy overrides the close-readiness scoring policy
func WithScorePolicy(policy metrics.ScorePolicy) DashboardServiceOption {
	return func(s *DashboardService) {
		s.scorePolicy = policy
	}
}

// WithClock overrides the time source, used by tests for deterministic
// window and sparkline anchoring
func WithClock(now func() time.Time) DashboardServiceOption {
	return func(s *DashboardService) {
		s.now = now
	}
}

// WithFallbackRecorder attaches a counter for missing-rate fallbacks
func WithFallbackRecorder(recorder FallbackRecorder) DashboardServiceOption {
	return func(s *DashboardService) {
		s.fallbacks = recorder
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	accountRepo metrics.AccountReader,
	transactionRepo metrics.TransactionReader,
	agingRepo metrics.AgingStatsReader,
	rateProvider metrics.RateProvider,
	checklist metrics.CloseChecklistEvaluator,
	logger *zap.Logger,
	opts ...DashboardServiceOption,
) *DashboardService {
	s := &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		agingRepo:       agingRepo,
		rateProvider:    rateProvider,
		checklist:       checklist,
		scorePolicy:     metrics.DefaultScorePolicy(),
		logger:          logger,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetMetrics computes the balance summary for a tenant: net worth, cash
// position, account summary and receivable/payable aging. The three
// store reads run concurrently and any failure aborts the whole request;
// no partial result is ever returned. The FX batch is fetched exactly
// once, after the account read, keyed off the distinct account-currency
// set. The caller's context governs cancellation of all in-flight reads.
func (s *DashboardService) GetMetrics(
	ctx context.Context,
	tenantID uuid.UUID,
	entityID *uuid.UUID,
	target valueobject.Currency,
) (*metrics.MetricsResult, error) {
	if target == "" {
		target = valueobject.DefaultCurrency
	}

	var (
		accounts    []metrics.Account
		receivables metrics.AgingStats
		payables    metrics.AgingStats
	)

	// Stage 1: independent reads in parallel
	err := runParallel(
		func() error {
			var err error
			accounts, err = s.accountRepo.ListActiveAccounts(ctx, tenantID, entityID)
			return err
		},
		func() error {
			var err error
			receivables, err = s.agingRepo.ReceivableStats(ctx, tenantID, entityID)
			return err
		},
		func() error {
			var err error
			payables, err = s.agingRepo.PayableStats(ctx, tenantID, entityID)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	// Stage 2: one rate batch for the distinct currency set
	currencies := make([]valueobject.Currency, len(accounts))
	for i, a := range accounts {
		currencies[i] = a.Currency
	}
	rates, err := s.fetchRates(ctx, currencies, target)
	if err != nil {
		return nil, err
	}

	// Stage 3: pure fold
	result := metrics.ComputeBalanceMetrics(accounts, rates, target, receivables, payables)

	s.logger.Info("Balance metrics computed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("currency", string(target)),
		zap.Int("accounts", len(accounts)),
	)

	return &result, nil
}

// GetPerformance computes the revenue/expense/profit trend summary over
// the given period. An unrecognized period fails fast before any read.
// The current-window, previous-window and grouped account-count reads
// run concurrently; the FX batch is fetched exactly once for the
// distinct currency set of both windows.
func (s *DashboardService) GetPerformance(
	ctx context.Context,
	tenantID uuid.UUID,
	entityID *uuid.UUID,
	period metrics.Period,
	target valueobject.Currency,
) (*metrics.PerformanceResult, error) {
	days, err := period.Days()
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = valueobject.DefaultCurrency
	}

	now := s.now()
	currentWindow := metrics.CurrentWindow(now, days)
	previousWindow := metrics.PreviousWindow(now, days)

	var (
		current  []metrics.Transaction
		previous []metrics.Transaction
		counts   metrics.AccountCounts
	)

	err = runParallel(
		func() error {
			var err error
			current, err = s.transactionRepo.ListTransactionsInWindow(ctx, tenantID, entityID, currentWindow)
			return err
		},
		func() error {
			var err error
			previous, err = s.transactionRepo.ListTransactionsInWindow(ctx, tenantID, entityID, previousWindow)
			return err
		},
		func() error {
			var err error
			counts, err = s.accountRepo.CountAccountsByStatus(ctx, tenantID, entityID)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	currencies := make([]valueobject.Currency, 0, len(current)+len(previous))
	for _, t := range current {
		currencies = append(currencies, t.Currency)
	}
	for _, t := range previous {
		currencies = append(currencies, t.Currency)
	}
	rates, err := s.fetchRates(ctx, currencies, target)
	if err != nil {
		return nil, err
	}

	result := metrics.ComputePerformance(current, previous, days, rates, target, counts, now)

	s.logger.Info("Performance metrics computed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", string(period)),
		zap.Int("current_transactions", len(current)),
		zap.Int("previous_transactions", len(previous)),
	)

	return &result, nil
}

// GetCloseReadiness evaluates the period-health checklist and scores it.
// The checklist evaluation queries the ledger; the scoring itself is a
// pure fold.
func (s *DashboardService) GetCloseReadiness(
	ctx context.Context,
	tenantID uuid.UUID,
	entityID *uuid.UUID,
	periodStart, periodEnd time.Time,
) (*metrics.CloseReadinessResult, error) {
	items, err := s.checklist.EvaluateChecklist(ctx, tenantID, entityID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	result := metrics.ScoreChecklist(items, s.scorePolicy)

	s.logger.Info("Close readiness scored",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("score", result.Score),
		zap.Bool("can_close", result.CanClose),
	)

	return &result, nil
}

// fetchRates issues the single batched FX lookup for the request. The
// provider is always called exactly once, even when the pair set is
// empty, so the batching invariant holds regardless of the currency mix.
// Pairs missing from the batch result degrade to rate 1.0; the fallback
// is logged as a data-quality signal, not surfaced as an error.
func (s *DashboardService) fetchRates(
	ctx context.Context,
	sources []valueobject.Currency,
	target valueobject.Currency,
) (metrics.RateMap, error) {
	pairs := metrics.CollectRatePairs(sources, target)

	rates, err := s.rateProvider.GetRateBatch(ctx, pairs)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = metrics.RateMap{}
	}

	for _, pair := range pairs {
		if _, ok := rates[pair.Key()]; !ok {
			s.logger.Warn("Missing FX rate, falling back to 1.0",
				zap.String("from", string(pair.From)),
				zap.String("to", string(pair.To)),
			)
			if s.fallbacks != nil {
				s.fallbacks.RecordFXFallback(string(pair.From), string(pair.To))
			}
		}
	}

	return rates, nil
}

// runParallel executes the functions concurrently and waits for all of
// them. The first non-nil error is returned; every function always runs
// to completion so no goroutine is leaked. Each function writes only its
// own captured variables, so there is no shared mutable state between
// branches.
func runParallel(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))

	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
