package metrics

import (
	"testing"

	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateMap(t *testing.T) {
	rates := RateMap{
		"CAD_USD": decimal.NewFromFloat(0.74),
		"EUR_USD": decimal.NewFromFloat(1.08),
	}

	t.Run("same-currency pair resolves to 1.0 without lookup", func(t *testing.T) {
		rate, ok := RateMap{}.Rate(valueobject.USD, valueobject.USD)
		assert.True(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	})

	t.Run("returns the batched rate when present", func(t *testing.T) {
		rate, ok := rates.Rate(valueobject.CAD, valueobject.USD)
		assert.True(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromFloat(0.74)))
	})

	t.Run("missing pair falls back to 1.0 and reports not found", func(t *testing.T) {
		rate, ok := rates.Rate(valueobject.GBP, valueobject.USD)
		assert.False(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	})
}

func TestCollectRatePairs(t *testing.T) {
	t.Run("deduplicates and drops same-currency pairs", func(t *testing.T) {
		sources := []valueobject.Currency{
			valueobject.CAD, valueobject.EUR, valueobject.USD,
			valueobject.CAD, valueobject.EUR,
		}
		pairs := CollectRatePairs(sources, valueobject.USD)
		require.Len(t, pairs, 2)
		assert.Equal(t, RatePair{From: valueobject.CAD, To: valueobject.USD}, pairs[0])
		assert.Equal(t, RatePair{From: valueobject.EUR, To: valueobject.USD}, pairs[1])
	})

	t.Run("single-currency tenant needs no pairs", func(t *testing.T) {
		pairs := CollectRatePairs([]valueobject.Currency{valueobject.USD, valueobject.USD}, valueobject.USD)
		assert.Empty(t, pairs)
	})

	t.Run("key format is FROM_TO", func(t *testing.T) {
		p := RatePair{From: valueobject.CAD, To: valueobject.USD}
		assert.Equal(t, "CAD_USD", p.Key())
	})
}

func TestConvert(t *testing.T) {
	t.Run("rounds half up on the fractional minor unit", func(t *testing.T) {
		// 33333 * 0.74 = 24666.42 -> 24666
		assert.Equal(t, int64(24666), Convert(33333, decimal.NewFromFloat(0.74)))
		// 100 * 1.085 = 108.5 -> 109
		assert.Equal(t, int64(109), Convert(100, decimal.NewFromFloat(1.085)))
	})

	t.Run("returns the absolute magnitude for negative amounts", func(t *testing.T) {
		assert.Equal(t, int64(24666), Convert(-33333, decimal.NewFromFloat(0.74)))
	})

	t.Run("rate 1.0 leaves the magnitude unmodified", func(t *testing.T) {
		assert.Equal(t, int64(500000), Convert(500000, decimal.NewFromInt(1)))
		assert.Equal(t, int64(500000), Convert(-500000, decimal.NewFromInt(1)))
	})
}

func TestConvertSigned(t *testing.T) {
	t.Run("preserves the sign of the amount", func(t *testing.T) {
		rate := decimal.NewFromFloat(0.74)
		assert.Equal(t, int64(24666), ConvertSigned(33333, rate))
		assert.Equal(t, int64(-24666), ConvertSigned(-33333, rate))
	})

	t.Run("zero converts to zero", func(t *testing.T) {
		assert.Equal(t, int64(0), ConvertSigned(0, decimal.NewFromFloat(1.08)))
	})
}
