package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
	JPY Currency = "JPY" // Japanese Yen
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = USD

// IsValid reports whether the currency code is a three-letter code
func (c Currency) IsValid() bool {
	return len(c) == 3
}

// Money is a value object representing a monetary amount in minor units
// (cents). All arithmetic is integer arithmetic; floating point values
// never enter or leave this type. It is immutable - all operations return
// new Money instances.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney creates a new Money with the specified minor-unit amount and currency
func NewMoney(amount int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// MustNewMoney creates Money and panics on an empty currency
func MustNewMoney(amount int64, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount + other.amount,
		currency: m.currency,
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount - other.amount,
		currency: m.currency,
	}, nil
}

// MustSubtract subtracts two Money values, panics if currencies don't match
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{
		amount:   -m.amount,
		currency: m.currency,
	}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	if m.amount < 0 {
		return Money{amount: -m.amount, currency: m.currency}
	}
	return m
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// LessThan returns true if this Money is less than the other
// Returns error if currencies don't match
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount < other.amount, nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount > other.amount, nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

// MarshalJSON implements json.Marshaler
// The amount serializes as an integer in minor units
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64    `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount,
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   int64    `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.amount = v.Amount
	m.currency = v.Currency
	return nil
}

// Value implements driver.Valuer for database storage
// Stores the minor-unit amount only
func (m Money) Value() (driver.Value, error) {
	return m.amount, nil
}

// Scan implements sql.Scanner for database retrieval.
// Scans only the amount; currency defaults to DefaultCurrency if not
// already set. Store currency in a separate column for complete data.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = 0
		m.currency = DefaultCurrency
		return nil
	}

	switch v := value.(type) {
	case int64:
		m.amount = v
	case int:
		m.amount = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
