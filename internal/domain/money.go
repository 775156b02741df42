package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces an upstream amount into a decimal.
// Accepts JSON numbers, numeric strings and already formatted strings ("$1,234.50").
// Anything unparsable becomes zero, so formatting never yields "$NaN".
func ParseAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero
		}
		s = str
	}

	return ParseAmountString(s)
}

// ParseAmountString parses a textual amount, tolerating a currency symbol and separators
func ParseAmountString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders the UI amount string: "$" followed by a two-decimal value
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// IsZeroAmount reports whether a formatted amount ("$0", "$0.00", "0") is zero
func IsZeroAmount(formatted string) bool {
	return ParseAmountString(formatted).IsZero()
}
