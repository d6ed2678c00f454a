package client

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/domain/shared/valueobject"
)

var (
	scoreDebtPenaltyCap = decimal.NewFromFloat(0.5)
	scoreDebtWeight     = decimal.NewFromFloat(0.5)
	recommendShare      = decimal.NewFromFloat(0.3)
	recommendLimitCap   = decimal.NewFromInt(10)
)

// Validator is the stateless rule-checker coordinating Client and Money to
// approve or reject transactions and credit-limit changes. It owns no data.
type Validator struct{}

// NewValidator creates a client validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateForTransaction checks that the client may proceed with a
// transaction of the given amount.
func (v *Validator) ValidateForTransaction(c *Client, amount valueobject.Money) error {
	if c.Status != StatusActive {
		return shared.NewValidationError("status",
			fmt.Sprintf("client is %s, only active clients can make transactions", c.Status))
	}
	if c.IsDeleted() {
		return shared.NewValidationError("status", "cannot transact with deleted client")
	}

	ok, err := c.CanMakePurchase(amount)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewBusinessRuleViolation("credit_limit",
			fmt.Sprintf("transaction of %s would exceed available credit %s", amount, c.Balance.AvailableCredit()))
	}
	return nil
}

// ValidateForCreditIncrease checks that the credit limit may be changed to
// the proposed value.
func (v *Validator) ValidateForCreditIncrease(c *Client, newLimit valueobject.Money) error {
	if newLimit.IsNegative() {
		return shared.NewValidationError("credit_limit", "credit limit cannot be negative")
	}
	if newLimit.Currency() != c.Balance.Currency() {
		return shared.NewValidationError("credit_limit",
			fmt.Sprintf("currency mismatch: %s != %s", newLimit.Currency(), c.Balance.Currency()))
	}

	decreasing := newLimit.Amount().LessThan(c.Balance.CreditLimit().Amount())
	if decreasing && c.OwesMoney() {
		return shared.NewBusinessRuleViolation("credit_limit_decrease",
			"cannot decrease credit limit while client has outstanding debt")
	}
	if c.Status != StatusActive {
		return shared.NewBusinessRuleViolation("client_status",
			fmt.Sprintf("cannot modify credit limit for %s client", c.Status))
	}
	return nil
}

// CalculateCreditScore computes a simple score in [0, 1]: start from 1,
// subtract up to 0.5 for the debt ratio, 0.3 when the limit is exceeded,
// halve for inactive clients, and zero out blocked ones.
func (v *Validator) CalculateCreditScore(c *Client) float64 {
	score := decimal.NewFromInt(1)

	if c.OwesMoney() {
		limit := c.Balance.CreditLimit().Amount()
		if limit.LessThan(decimal.NewFromInt(1)) {
			limit = decimal.NewFromInt(1)
		}
		debtRatio := c.Balance.TotalDebt().Amount().Div(limit)
		penalty := debtRatio.Mul(scoreDebtWeight)
		if penalty.GreaterThan(scoreDebtPenaltyCap) {
			penalty = scoreDebtPenaltyCap
		}
		score = score.Sub(penalty)
	}

	if c.CreditExceeded() {
		score = score.Sub(decimal.NewFromFloat(0.3))
	}

	if c.Status == StatusBlocked {
		score = decimal.Zero
	}
	if c.Status == StatusInactive {
		score = score.Mul(decimal.NewFromFloat(0.5))
	}

	f, _ := score.Float64()
	return min(1.0, max(0.0, f))
}

// RecommendCreditLimit suggests a limit from purchase history: 30% of the
// historical volume, floored at the current debt, capped at 10x the current
// limit.
func (v *Validator) RecommendCreditLimit(c *Client, purchaseHistoryTotal valueobject.Money) valueobject.Money {
	recommended := purchaseHistoryTotal.Multiply(recommendShare)

	if c.OwesMoney() {
		minimum := c.Balance.TotalDebt()
		if recommended.Amount().LessThan(minimum.Amount()) {
			recommended = minimum
		}
	}

	if c.Balance.CreditLimit().IsPositive() {
		maximum := c.Balance.CreditLimit().Multiply(recommendLimitCap)
		if recommended.Amount().GreaterThan(maximum.Amount()) {
			recommended = maximum
		}
	}

	return recommended
}

// ShouldSendCreditWarning reports whether the client sits at 90% utilization
// or beyond their limit.
func (v *Validator) ShouldSendCreditWarning(c *Client) bool {
	return c.Balance.IsAtCreditLimit() || c.CreditExceeded()
}
