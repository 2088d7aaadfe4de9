package metrics

import (
	"context"
	"fmt"

	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RatePair identifies a source/target currency pair for an FX lookup
type RatePair struct {
	From valueobject.Currency
	To   valueobject.Currency
}

// Key returns the canonical map key for the pair, "{FROM}_{TO}"
func (p RatePair) Key() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// RateMap holds multiplicative exchange rates keyed by "{FROM}_{TO}".
// Rates are decimal at this boundary only; they are never stored as
// integer money.
type RateMap map[string]decimal.Decimal

// Rate returns the rate for the pair. Same-currency pairs always resolve
// to 1.0 without a lookup. A pair missing from the batch result also
// resolves to 1.0 - the missing-rate fallback policy - with ok=false so
// the caller can log the degraded conversion as a data-quality signal.
func (m RateMap) Rate(from, to valueobject.Currency) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := m[RatePair{From: from, To: to}.Key()]; ok {
		return rate, true
	}
	return decimal.NewFromInt(1), false
}

// RateProvider is the injected capability for batched FX rate lookups.
// GetRateBatch must be invoked at most once per metrics or performance
// request; callers collect the distinct currency set first and never
// look up rates inside a per-row loop.
type RateProvider interface {
	GetRateBatch(ctx context.Context, pairs []RatePair) (RateMap, error)
}

// CollectRatePairs builds the distinct set of pairs needed to convert
// the given source currencies into the target. Same-currency pairs are
// dropped - they resolve to 1.0 without a round trip.
func CollectRatePairs(sources []valueobject.Currency, target valueobject.Currency) []RatePair {
	seen := make(map[valueobject.Currency]struct{}, len(sources))
	pairs := make([]RatePair, 0, len(sources))
	for _, c := range sources {
		if c == target {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		pairs = append(pairs, RatePair{From: c, To: target})
	}
	return pairs
}

// Convert converts a minor-unit amount with the given rate, returning
// the absolute converted magnitude rounded half-up to the nearest minor
// unit.
func Convert(amount int64, rate decimal.Decimal) int64 {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	return decimal.NewFromInt(abs).Mul(rate).Round(0).IntPart()
}

// ConvertSigned converts a signed minor-unit amount, preserving the sign
func ConvertSigned(amount int64, rate decimal.Decimal) int64 {
	converted := Convert(amount, rate)
	if amount < 0 {
		return -converted
	}
	return converted
}
