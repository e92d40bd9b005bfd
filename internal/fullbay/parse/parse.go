package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var datetimeFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05.000",
}

// Decimal parses a monetary or quantity value, tolerating currency symbols
// and thousands separators. Empty input parses to zero without error;
// anything else malformed returns an error so callers can decide whether
// the field is load-bearing.
func Decimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q", raw)
	}
	return d, nil
}

// DecimalOrZero is Decimal for fields where a bad value downgrades to zero.
func DecimalOrZero(raw string) decimal.Decimal {
	d, err := Decimal(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date parses a YYYY-MM-DD value, ignoring any trailing time component.
// Missing or unparseable dates return nil rather than an error; dates are
// optional everywhere they appear in the feed.
func Date(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return nil
	}
	return &t
}

// DateTime parses the timestamp formats observed in the feed, in UTC.
func DateTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range datetimeFormats {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// YesNo interprets Fullbay's boolean vocabulary.
func YesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return true
	}
	return false
}

// Int64 parses an identifier, accepting decimal-formatted values like
// "2250840.0". Returns zero when missing or malformed.
func Int64(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f)
	}
	return 0
}

// Int parses a small integer such as a technician portion percentage.
func Int(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return fallback
}
