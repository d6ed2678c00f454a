package valueobject

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/shared"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), ARS)
		require.NoError(t, err)
		assert.Equal(t, "100.50", m.StringFixed())
		assert.Equal(t, ARS, m.Currency())
	})

	t.Run("rounds half up to 2 decimal places", func(t *testing.T) {
		tests := []struct {
			input    string
			expected string
		}{
			{"100.999", "101.00"},
			{"100.994", "100.99"},
			{"100.995", "101.00"},
			{"0.005", "0.01"},
			{"-0.005", "-0.01"},
			{"10.004", "10.00"},
			{"10", "10.00"},
		}
		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				m, err := NewMoneyFromString(tt.input, ARS)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, m.StringFixed())
			})
		}
	})

	t.Run("rejects invalid currency codes", func(t *testing.T) {
		for _, currency := range []Currency{"", "ar", "ARSS", "ars", "A1S"} {
			_, err := NewMoney(decimal.NewFromInt(10), currency)
			require.Error(t, err)

			var verr *shared.ValidationError
			assert.True(t, errors.As(err, &verr))
		}
	})

	t.Run("rejects malformed amount string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", ARS)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a := NewMoneyARSFromFloat(100.25)
		b := NewMoneyARSFromFloat(50.75)

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "151.00", sum.StringFixed())

		// Operands untouched
		assert.Equal(t, "100.25", a.StringFixed())
		assert.Equal(t, "50.75", b.StringFixed())
	})

	t.Run("subtract", func(t *testing.T) {
		a := NewMoneyARSFromFloat(100)
		b := NewMoneyARSFromFloat(30.50)

		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "69.50", diff.StringFixed())
	})

	t.Run("subtract can go negative", func(t *testing.T) {
		a := NewMoneyARSFromFloat(10)
		b := NewMoneyARSFromFloat(25)

		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
		assert.Equal(t, "-15.00", diff.StringFixed())
	})

	t.Run("multiply rounds result", func(t *testing.T) {
		m := NewMoneyARSFromFloat(10.33)
		result := m.Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "30.99", result.StringFixed())
	})

	t.Run("divide", func(t *testing.T) {
		m := NewMoneyARSFromFloat(100)
		result, err := m.Divide(decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.Equal(t, "33.33", result.StringFixed())
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		m := NewMoneyARSFromFloat(100)
		_, err := m.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("negate and abs", func(t *testing.T) {
		m := NewMoneyARSFromFloat(42.50)
		neg := m.Negate()
		assert.Equal(t, "-42.50", neg.StringFixed())
		assert.Equal(t, "42.50", neg.Abs().StringFixed())
	})
}

func TestMoneyCurrencyGuard(t *testing.T) {
	ars := NewMoneyARSFromFloat(100)
	usd, err := NewMoneyFromFloat(100, USD)
	require.NoError(t, err)

	t.Run("add fails on mismatch", func(t *testing.T) {
		_, err := ars.Add(usd)
		require.Error(t, err)

		var brv *shared.BusinessRuleViolation
		require.True(t, errors.As(err, &brv))
		assert.Equal(t, "currency_mismatch", brv.Rule)
	})

	t.Run("subtract fails on mismatch", func(t *testing.T) {
		_, err := ars.Subtract(usd)
		assert.Error(t, err)
	})

	t.Run("comparisons fail on mismatch", func(t *testing.T) {
		_, err := ars.LessThan(usd)
		assert.Error(t, err)
		_, err = ars.GreaterThan(usd)
		assert.Error(t, err)
		_, err = ars.LessThanOrEqual(usd)
		assert.Error(t, err)
		_, err = ars.GreaterThanOrEqual(usd)
		assert.Error(t, err)
	})

	t.Run("equals is false across currencies", func(t *testing.T) {
		assert.False(t, ars.Equals(usd))
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyARSFromFloat(10)
	big := NewMoneyARSFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := big.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, small.Equals(NewMoneyARSFromFloat(10)))
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, ZeroARS().IsZero())
	assert.True(t, NewMoneyARSFromFloat(1).IsPositive())
	assert.True(t, NewMoneyARSFromFloat(-1).IsNegative())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m := NewMoneyARSFromFloat(99.90)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"99.90","currency":"ARS"}`, string(data))
	})

	t.Run("unmarshal validates currency", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"10.00","currency":"bad"}`), &m)
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyARSFromFloat(1234.56)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("150.75"))
		assert.Equal(t, "150.75", m.StringFixed())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("with currency rehydrates the tag", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("10.00"))
		assert.Equal(t, USD, m.WithCurrency(USD).Currency())
	})
}
