package persistence

import (
	"context"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormRateProvider loads exchange rates from the exchange_rates table.
// One GetRateBatch call issues at most one SELECT regardless of the
// number of pairs requested.
type GormRateProvider struct {
	db *gorm.DB

	maxAge   time.Duration
	recorder BatchRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// BatchRecorder receives batch-size observations for telemetry. The
// telemetry.Collector satisfies it; a nil recorder disables recording.
type BatchRecorder interface {
	RecordRateBatch(pairs int)
}

// GormRateProviderOption configures a GormRateProvider
type GormRateProviderOption func(*GormRateProvider)

// WithBatchRecorder wires batch-size telemetry into the provider
func WithBatchRecorder(recorder BatchRecorder) GormRateProviderOption {
	return func(p *GormRateProvider) {
		p.recorder = recorder
	}
}

// WithRateMaxAge sets the staleness threshold for loaded rates
func WithRateMaxAge(maxAge time.Duration) GormRateProviderOption {
	return func(p *GormRateProvider) {
		p.maxAge = maxAge
	}
}

// WithRateLogger sets the logger used for stale-rate warnings
func WithRateLogger(logger *zap.Logger) GormRateProviderOption {
	return func(p *GormRateProvider) {
		p.logger = logger
	}
}

// NewGormRateProvider creates a new GormRateProvider
func NewGormRateProvider(db *gorm.DB, opts ...GormRateProviderOption) *GormRateProvider {
	p := &GormRateProvider{
		db:     db,
		maxAge: 24 * time.Hour,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetRateBatch loads all requested pairs in a single query. An empty
// pair set short-circuits without touching the store; callers still
// invoke this method once per request so the batching contract stays
// uniform. Pairs with no stored row are simply absent from the result;
// the caller decides the fallback. Stale rates are still served -
// freshness is a data pipeline concern, not a read-path failure - but
// they are logged.
func (p *GormRateProvider) GetRateBatch(ctx context.Context, pairs []metrics.RatePair) (metrics.RateMap, error) {
	if p.recorder != nil {
		p.recorder.RecordRateBatch(len(pairs))
	}

	rates := make(metrics.RateMap, len(pairs))
	if len(pairs) == 0 {
		return rates, nil
	}

	q := p.db.WithContext(ctx).Model(&models.ExchangeRateModel{})
	pairCond := p.db.Where("from_currency = ? AND to_currency = ?", string(pairs[0].From), string(pairs[0].To))
	for _, pair := range pairs[1:] {
		pairCond = pairCond.Or("from_currency = ? AND to_currency = ?", string(pair.From), string(pair.To))
	}

	var rows []models.ExchangeRateModel
	if err := q.Where(pairCond).Find(&rows).Error; err != nil {
		return nil, err
	}

	staleBefore := p.now().Add(-p.maxAge)
	for _, row := range rows {
		if p.maxAge > 0 && row.AsOf.Before(staleBefore) {
			p.logger.Warn("Serving stale exchange rate",
				zap.String("from", row.FromCurrency),
				zap.String("to", row.ToCurrency),
				zap.Time("as_of", row.AsOf),
			)
		}
		rates[row.FromCurrency+"_"+row.ToCurrency] = row.Rate
	}
	return rates, nil
}
