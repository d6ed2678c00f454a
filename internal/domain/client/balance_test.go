package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

func ars(amount float64) valueobject.Money {
	return valueobject.NewMoneyARSFromFloat(amount)
}

func balance(t *testing.T, current, limit float64) ClientBalance {
	t.Helper()
	b, err := NewClientBalance(ars(current), ars(limit))
	require.NoError(t, err)
	return b
}

func TestNewClientBalance(t *testing.T) {
	t.Run("rejects currency mismatch", func(t *testing.T) {
		usd, err := valueobject.NewMoneyFromFloat(100, valueobject.USD)
		require.NoError(t, err)

		_, err = NewClientBalance(ars(0), usd)
		assert.Error(t, err)
	})

	t.Run("rejects negative credit limit", func(t *testing.T) {
		_, err := NewClientBalance(ars(0), ars(-1))
		assert.Error(t, err)
	})

	t.Run("negative balance is allowed", func(t *testing.T) {
		b, err := NewClientBalance(ars(-500), ars(1000))
		require.NoError(t, err)
		assert.True(t, b.OwesMoney())
	})
}

func TestClientBalanceDerived(t *testing.T) {
	t.Run("available credit reduced by debt", func(t *testing.T) {
		b := balance(t, -300, 1000)
		assert.Equal(t, "700.00", b.AvailableCredit().StringFixed())
		assert.Equal(t, "300.00", b.TotalDebt().StringFixed())
	})

	t.Run("positive balance keeps full limit available", func(t *testing.T) {
		b := balance(t, 250, 1000)
		assert.Equal(t, "1000.00", b.AvailableCredit().StringFixed())
		assert.True(t, b.TotalDebt().IsZero())
		assert.False(t, b.OwesMoney())
	})

	t.Run("credit exceeded only past the limit", func(t *testing.T) {
		assert.False(t, balance(t, -1000, 1000).IsCreditExceeded())
		assert.True(t, balance(t, -1000.01, 1000).IsCreditExceeded())
		assert.False(t, balance(t, 100, 1000).IsCreditExceeded())
	})

	t.Run("at credit limit from 90 percent utilization", func(t *testing.T) {
		assert.False(t, balance(t, -899.99, 1000).IsAtCreditLimit())
		assert.True(t, balance(t, -900, 1000).IsAtCreditLimit())
		assert.True(t, balance(t, -1500, 1000).IsAtCreditLimit())
		assert.False(t, balance(t, 500, 1000).IsAtCreditLimit())
	})
}

func TestClientBalanceCanPurchase(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		limit    float64
		amount   float64
		expected bool
	}{
		{"covered by positive balance", 500, 0, 400, true},
		{"exactly drains the balance", 500, 0, 500, true},
		{"fits within the credit limit", 0, 5000, 5000, true},
		{"one peso past the limit", 0, 5000, 5001, false},
		{"existing debt plus charge within limit", -2000, 5000, 3000, true},
		{"existing debt plus charge past limit", -2000, 5000, 3001, false},
		{"no credit no balance", 0, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := balance(t, tt.current, tt.limit)
			ok, err := b.CanPurchase(ars(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}

	t.Run("currency mismatch fails", func(t *testing.T) {
		usd, err := valueobject.NewMoneyFromFloat(10, valueobject.USD)
		require.NoError(t, err)

		_, err = balance(t, 0, 100).CanPurchase(usd)
		assert.Error(t, err)
	})
}

func TestClientBalanceLedger(t *testing.T) {
	t.Run("charge subtracts and payment adds", func(t *testing.T) {
		b := balance(t, 0, 5000)

		charged, err := b.ApplyCharge(ars(1200))
		require.NoError(t, err)
		assert.Equal(t, "-1200.00", charged.CurrentBalance().StringFixed())

		paid, err := charged.ApplyPayment(ars(200))
		require.NoError(t, err)
		assert.Equal(t, "-1000.00", paid.CurrentBalance().StringFixed())

		// Original snapshots never mutate
		assert.True(t, b.CurrentBalance().IsZero())
		assert.Equal(t, "-1200.00", charged.CurrentBalance().StringFixed())
	})

	t.Run("payment clears debt exactly", func(t *testing.T) {
		b := balance(t, -1000, 5000)

		cleared, err := b.ApplyPayment(ars(1000))
		require.NoError(t, err)
		assert.True(t, cleared.CurrentBalance().IsZero())
		assert.False(t, cleared.OwesMoney())
	})

	t.Run("overpayment builds credit", func(t *testing.T) {
		b := balance(t, -1000, 5000)

		over, err := b.ApplyPayment(ars(1500))
		require.NoError(t, err)
		assert.Equal(t, "500.00", over.CurrentBalance().StringFixed())
	})

	t.Run("signed sum over a sequence of operations", func(t *testing.T) {
		b := balance(t, 100, 2000)
		ops := []struct {
			charge bool
			amount float64
		}{
			{true, 500}, {false, 200}, {true, 300}, {false, 1000}, {true, 50},
		}
		expected := 100.0
		var err error
		for _, op := range ops {
			if op.charge {
				b, err = b.ApplyCharge(ars(op.amount))
				expected -= op.amount
			} else {
				b, err = b.ApplyPayment(ars(op.amount))
				expected += op.amount
			}
			require.NoError(t, err)
		}
		assert.Equal(t, ars(expected).StringFixed(), b.CurrentBalance().StringFixed())
	})

	t.Run("update credit limit keeps the balance", func(t *testing.T) {
		b := balance(t, -100, 1000)

		updated, err := b.UpdateCreditLimit(ars(2000))
		require.NoError(t, err)
		assert.Equal(t, "2000.00", updated.CreditLimit().StringFixed())
		assert.Equal(t, "-100.00", updated.CurrentBalance().StringFixed())

		_, err = b.UpdateCreditLimit(ars(-1))
		assert.Error(t, err)
	})
}
