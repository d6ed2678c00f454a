package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberGeneratorGenerate(t *testing.T) {
	g := NewNumberGenerator()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("formats per type prefix", func(t *testing.T) {
		tests := []struct {
			txType   Type
			sequence int
			expected string
		}{
			{TypeInvoice, 42, "INV-20240615-0042"},
			{TypePayment, 1, "PAY-20240615-0001"},
			{TypeCreditNote, 999, "CN-20240615-0999"},
			{TypeDebitNote, 10, "DN-20240615-0010"},
		}
		for _, tt := range tests {
			number, err := g.Generate(tt.txType, tt.sequence, date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, number)
		}
	})

	t.Run("sequences past 9999 widen", func(t *testing.T) {
		number, err := g.Generate(TypeInvoice, 12345, date)
		require.NoError(t, err)
		assert.Equal(t, "INV-20240615-12345", number)
	})

	t.Run("zero date defaults to today", func(t *testing.T) {
		number, err := g.Generate(TypeInvoice, 1, time.Time{})
		require.NoError(t, err)
		assert.Contains(t, number, time.Now().Format("20060102"))
	})

	t.Run("unknown type fails", func(t *testing.T) {
		_, err := g.Generate(Type("transfer"), 1, date)
		assert.Error(t, err)
	})
}

func TestNumberGeneratorParse(t *testing.T) {
	g := NewNumberGenerator()

	t.Run("parses a generated number", func(t *testing.T) {
		parts, err := g.Parse("INV-20240615-0042")
		require.NoError(t, err)

		assert.Equal(t, TypeInvoice, parts.Type)
		assert.Equal(t, "INV", parts.Prefix)
		assert.Equal(t, 42, parts.Sequence)
		assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), parts.Date)
	})

	t.Run("round trip reproduces inputs", func(t *testing.T) {
		date := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		for _, txType := range []Type{TypeInvoice, TypePayment, TypeCreditNote, TypeDebitNote} {
			for _, seq := range []int{1, 42, 9999, 10000, 123456} {
				number, err := g.Generate(txType, seq, date)
				require.NoError(t, err)

				parts, err := g.Parse(number)
				require.NoError(t, err)
				assert.Equal(t, txType, parts.Type)
				assert.Equal(t, seq, parts.Sequence)
				assert.Equal(t, date, parts.Date)
			}
		}
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		for _, number := range []string{
			"INV-20240615",          // missing sequence
			"INV-20240615-0042-01",  // too many tokens
			"XYZ-20240615-0042",     // unknown prefix
			"INV-2024615-0042",      // 7-digit date
			"INV-20241315-0042",     // month 13
			"INV-20240615-abc",      // non-numeric sequence
			"invoice-20240615-0042", // full type instead of prefix
			"",
		} {
			_, err := g.Parse(number)
			assert.Error(t, err, "number %q", number)
		}
	})
}
