package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.ExchangeRateModel{}))
	return db
}

func seedRate(t *testing.T, db *gorm.DB, from, to string, rate string, asOf time.Time) {
	row := models.ExchangeRateModel{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         decimal.RequireFromString(rate),
		AsOf:         asOf,
	}
	require.NoError(t, db.Create(&row).Error)
}

type countingRecorder struct {
	calls []int
}

func (c *countingRecorder) RecordRateBatch(pairs int) {
	c.calls = append(c.calls, pairs)
}

func TestGormRateProvider_GetRateBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("loads all requested pairs in one call", func(t *testing.T) {
		db := setupRateTestDB(t)
		seedRate(t, db, "CAD", "USD", "0.74", now)
		seedRate(t, db, "EUR", "USD", "1.08", now)
		seedRate(t, db, "GBP", "EUR", "1.17", now) // not requested

		provider := NewGormRateProvider(db)
		rates, err := provider.GetRateBatch(ctx, []metrics.RatePair{
			{From: "CAD", To: "USD"},
			{From: "EUR", To: "USD"},
		})
		require.NoError(t, err)

		require.Len(t, rates, 2)
		assert.True(t, rates["CAD_USD"].Equal(decimal.RequireFromString("0.74")))
		assert.True(t, rates["EUR_USD"].Equal(decimal.RequireFromString("1.08")))
	})

	t.Run("missing pairs are absent, not errors", func(t *testing.T) {
		db := setupRateTestDB(t)
		seedRate(t, db, "CAD", "USD", "0.74", now)

		provider := NewGormRateProvider(db)
		rates, err := provider.GetRateBatch(ctx, []metrics.RatePair{
			{From: "CAD", To: "USD"},
			{From: "GBP", To: "USD"},
		})
		require.NoError(t, err)

		assert.Len(t, rates, 1)
		_, ok := rates["GBP_USD"]
		assert.False(t, ok)
	})

	t.Run("empty pair set skips the store entirely", func(t *testing.T) {
		db := setupRateTestDB(t)
		recorder := &countingRecorder{}

		provider := NewGormRateProvider(db, WithBatchRecorder(recorder))
		rates, err := provider.GetRateBatch(ctx, nil)
		require.NoError(t, err)

		assert.Empty(t, rates)
		assert.Equal(t, []int{0}, recorder.calls, "batch size is still recorded")
	})

	t.Run("records batch size per call", func(t *testing.T) {
		db := setupRateTestDB(t)
		seedRate(t, db, "CAD", "USD", "0.74", now)
		recorder := &countingRecorder{}

		provider := NewGormRateProvider(db, WithBatchRecorder(recorder))
		_, err := provider.GetRateBatch(ctx, []metrics.RatePair{{From: "CAD", To: "USD"}})
		require.NoError(t, err)

		assert.Equal(t, []int{1}, recorder.calls)
	})

	t.Run("stale rates are still served", func(t *testing.T) {
		db := setupRateTestDB(t)
		seedRate(t, db, "CAD", "USD", "0.74", now.Add(-72*time.Hour))

		provider := NewGormRateProvider(db, WithRateMaxAge(24*time.Hour))
		provider.now = func() time.Time { return now }

		rates, err := provider.GetRateBatch(ctx, []metrics.RatePair{{From: "CAD", To: "USD"}})
		require.NoError(t, err)
		assert.True(t, rates["CAD_USD"].Equal(decimal.RequireFromString("0.74")))
	})
}

var _ metrics.RateProvider = (*GormRateProvider)(nil)
