package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farmabill/backend/internal/domain/shared"
)

const numberDateLayout = "20060102"

var typePrefixes = map[Type]string{
	TypeInvoice:    "INV",
	TypePayment:    "PAY",
	TypeCreditNote: "CN",
	TypeDebitNote:  "DN",
}

// NumberParts are the components of a parsed transaction number
type NumberParts struct {
	Type     Type
	Prefix   string
	Date     time.Time
	Sequence int
}

// NumberGenerator formats and parses human-readable transaction numbers of
// the form {PREFIX}-{YYYYMMDD}-{SEQUENCE}. It owns no state; sequence
// numbers are allocated by the persistence layer per (tenant, type, day).
type NumberGenerator struct{}

// NewNumberGenerator creates a transaction number generator
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{}
}

// Generate formats a transaction number. The date defaults to today when
// zero; sequences are zero-padded to 4 digits and simply widen past 9999.
func (g *NumberGenerator) Generate(txType Type, sequence int, date time.Time) (string, error) {
	prefix, ok := typePrefixes[txType]
	if !ok {
		return "", shared.NewValidationError("transaction_type", fmt.Sprintf("invalid transaction type: %s", txType))
	}
	if date.IsZero() {
		date = time.Now()
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format(numberDateLayout), sequence), nil
}

// Parse splits a transaction number back into its components
func (g *NumberGenerator) Parse(number string) (*NumberParts, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return nil, shared.NewValidationError("transaction_number", fmt.Sprintf("invalid transaction number format: %s", number))
	}

	prefix, dateStr, seqStr := parts[0], parts[1], parts[2]

	var txType Type
	for t, p := range typePrefixes {
		if p == prefix {
			txType = t
			break
		}
	}
	if txType == "" {
		return nil, shared.NewValidationError("transaction_number", fmt.Sprintf("invalid prefix: %s", prefix))
	}

	if len(dateStr) != 8 {
		return nil, shared.NewValidationError("transaction_number", fmt.Sprintf("invalid date format: %s", dateStr))
	}
	date, err := time.Parse(numberDateLayout, dateStr)
	if err != nil {
		return nil, shared.NewValidationError("transaction_number", fmt.Sprintf("invalid date format: %s", dateStr))
	}

	sequence, err := strconv.Atoi(seqStr)
	if err != nil {
		return nil, shared.NewValidationError("transaction_number", fmt.Sprintf("invalid sequence: %s", seqStr))
	}

	return &NumberParts{
		Type:     txType,
		Prefix:   prefix,
		Date:     date,
		Sequence: sequence,
	}, nil
}
