package client

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

// creditWarningRatio is the utilization at which a client counts as being
// at their credit limit.
var creditWarningRatio = decimal.NewFromFloat(0.9)

// ClientBalance is the immutable ledger snapshot for a client: current
// balance plus credit limit, sharing one currency. A negative balance means
// the client owes money to the pharmacy. Every mutation returns a new
// snapshot; affordability checks are the Client aggregate's job, not this
// type's.
type ClientBalance struct {
	currentBalance valueobject.Money
	creditLimit    valueobject.Money
}

// NewClientBalance creates a balance snapshot. Both amounts must share a
// currency and the credit limit must be non-negative.
func NewClientBalance(currentBalance, creditLimit valueobject.Money) (ClientBalance, error) {
	if currentBalance.Currency() != creditLimit.Currency() {
		return ClientBalance{}, shared.NewBusinessRuleViolation("currency_mismatch",
			fmt.Sprintf("currency mismatch: balance=%s, limit=%s", currentBalance.Currency(), creditLimit.Currency()))
	}
	if creditLimit.IsNegative() {
		return ClientBalance{}, shared.NewValidationError("credit_limit", "credit limit cannot be negative")
	}
	return ClientBalance{currentBalance: currentBalance, creditLimit: creditLimit}, nil
}

// ZeroBalance creates a balance with zero amount and zero credit limit
func ZeroBalance(currency valueobject.Currency) ClientBalance {
	return ClientBalance{
		currentBalance: valueobject.Zero(currency),
		creditLimit:    valueobject.Zero(currency),
	}
}

// CurrentBalance returns the current account balance
func (b ClientBalance) CurrentBalance() valueobject.Money {
	return b.currentBalance
}

// CreditLimit returns the credit limit
func (b ClientBalance) CreditLimit() valueobject.Money {
	return b.creditLimit
}

// Currency returns the balance currency
func (b ClientBalance) Currency() valueobject.Currency {
	return b.currentBalance.Currency()
}

// AvailableCredit returns how much room remains: the full limit when the
// balance is non-negative, otherwise the limit reduced by the debt.
func (b ClientBalance) AvailableCredit() valueobject.Money {
	if b.currentBalance.IsNegative() {
		return b.creditLimit.MustAdd(b.currentBalance)
	}
	return b.creditLimit
}

// TotalDebt returns the absolute value of a negative balance, or zero
func (b ClientBalance) TotalDebt() valueobject.Money {
	if b.currentBalance.IsNegative() {
		return b.currentBalance.Abs()
	}
	return valueobject.Zero(b.Currency())
}

// OwesMoney reports whether the client has outstanding debt
func (b ClientBalance) OwesMoney() bool {
	return b.currentBalance.IsNegative()
}

// IsCreditExceeded reports whether the debt has passed the credit limit
func (b ClientBalance) IsCreditExceeded() bool {
	if !b.currentBalance.IsNegative() {
		return false
	}
	return b.TotalDebt().Amount().GreaterThan(b.creditLimit.Amount())
}

// IsAtCreditLimit reports whether the debt has reached 90% of the credit
// limit, used as an early-warning signal.
func (b ClientBalance) IsAtCreditLimit() bool {
	if !b.currentBalance.IsNegative() {
		return false
	}
	threshold := b.creditLimit.Amount().Mul(creditWarningRatio)
	return b.TotalDebt().Amount().GreaterThanOrEqual(threshold)
}

// CanPurchase projects the balance after a charge and approves if the
// projected value stays non-negative or the projected debt fits within the
// credit limit.
func (b ClientBalance) CanPurchase(amount valueobject.Money) (bool, error) {
	projected, err := b.currentBalance.Subtract(amount)
	if err != nil {
		return false, err
	}
	if !projected.IsNegative() {
		return true, nil
	}
	return projected.Abs().Amount().LessThanOrEqual(b.creditLimit.Amount()), nil
}

// ApplyCharge returns a new snapshot with the amount subtracted. It does
// not check affordability.
func (b ClientBalance) ApplyCharge(amount valueobject.Money) (ClientBalance, error) {
	newBalance, err := b.currentBalance.Subtract(amount)
	if err != nil {
		return ClientBalance{}, err
	}
	return ClientBalance{currentBalance: newBalance, creditLimit: b.creditLimit}, nil
}

// ApplyPayment returns a new snapshot with the amount added
func (b ClientBalance) ApplyPayment(amount valueobject.Money) (ClientBalance, error) {
	newBalance, err := b.currentBalance.Add(amount)
	if err != nil {
		return ClientBalance{}, err
	}
	return ClientBalance{currentBalance: newBalance, creditLimit: b.creditLimit}, nil
}

// UpdateCreditLimit returns a new snapshot with the given limit
func (b ClientBalance) UpdateCreditLimit(newLimit valueobject.Money) (ClientBalance, error) {
	return NewClientBalance(b.currentBalance, newLimit)
}

func (b ClientBalance) String() string {
	status := "CREDIT"
	if b.OwesMoney() {
		status = "IN DEBT"
	}
	return fmt.Sprintf("Balance: %s (%s), Credit Limit: %s", b.currentBalance, status, b.creditLimit)
}
