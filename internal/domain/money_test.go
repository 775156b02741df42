package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`49`, "49.00"},
		{`49.5`, "49.50"},
		{`"12.30"`, "12.30"},
		{`"$1,234.50"`, "1234.50"},
		{`"abc"`, "0.00"},
		{`null`, "0.00"},
		{``, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(json.RawMessage(tt.raw)).StringFixed(2))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$99.00", FormatAmount(ParseAmountString("99")))
	assert.Equal(t, "$0.00", FormatAmount(ParseAmountString("garbage")))
}

func TestIsZeroAmount(t *testing.T) {
	assert.True(t, IsZeroAmount("$0.00"))
	assert.True(t, IsZeroAmount("0"))
	assert.False(t, IsZeroAmount("$0.01"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", FormatDate("2024-03-05T10:11:12.123Z"))
	assert.Equal(t, "2024-03-05", FormatDate("2024-03-05T10:11:12"))
	assert.Equal(t, "2024-03-05", FormatDate("2024-03-05"))
	assert.Equal(t, "next week", FormatDate("next week"))
}
