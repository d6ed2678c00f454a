package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhone(t *testing.T) {
	t.Run("normalizes local numbers", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{"already e164", "+5491112345678", "+5491112345678"},
			{"country code without plus", "5491112345678", "+5491112345678"},
			{"mobile without country code", "9111234567", "+549111234567"},
			{"leading zero", "01112345678", "+541112345678"},
			{"plain local number", "1112345678", "+541112345678"},
			{"with separators", "+54 9 11 1234-5678", "+5491112345678"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p, err := NewPhone(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, p.Normalized())
				assert.Equal(t, tt.input, p.Value())
			})
		}
	})

	t.Run("rejects empty and malformed input", func(t *testing.T) {
		for _, input := range []string{"", "abc", "12x34", "+54-11-letters"} {
			_, err := NewPhone(input)
			assert.Error(t, err, "input %q", input)
		}
	})

	t.Run("whatsapp format drops the plus", func(t *testing.T) {
		p, err := NewPhone("+5491112345678")
		require.NoError(t, err)
		assert.Equal(t, "5491112345678", p.WhatsAppFormat())
	})

	t.Run("equality by normalized value", func(t *testing.T) {
		a, err := NewPhone("+54 9 11 1234 5678")
		require.NoError(t, err)
		b, err := NewPhone("+5491112345678")
		require.NoError(t, err)
		assert.True(t, a.Equals(b))
	})
}

func TestPhoneFromNormalized(t *testing.T) {
	p, err := PhoneFromNormalized("+5491112345678")
	require.NoError(t, err)
	assert.Equal(t, "+5491112345678", p.Normalized())

	_, err = PhoneFromNormalized("5491112345678")
	assert.Error(t, err)
}
