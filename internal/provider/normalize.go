package provider

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// maxSnippetLen bounds the raw payload fragment captured per record. The
// snippet exists for audit and debugging only and is never parsed again.
const maxSnippetLen = 400

var dec100 = decimal.NewFromInt(100)

// toDecimal coerces the loosely typed values JSON decoding produces into a
// decimal, rejecting anything non-numeric.
func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Decimal{}, false
	}
}

// normalizePercent converts a raw rate to canonical percentage scale, where
// X means X%. Values at or below 1 are treated as fractions and scaled by
// 100; non-positive or non-numeric values are rejected.
func normalizePercent(raw any) (decimal.Decimal, bool) {
	value, ok := toDecimal(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	if value.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	if value.LessThanOrEqual(decimal.NewFromInt(1)) {
		value = value.Mul(dec100)
	}
	return value, true
}

// passthroughRate accepts a rate the upstream already expresses in
// percent. Negative values never form a valid record and are rejected.
func passthroughRate(raw any) (decimal.Decimal, bool) {
	value, ok := toDecimal(raw)
	if !ok || value.Sign() < 0 {
		return decimal.Decimal{}, false
	}
	return value, true
}

// pickFirst returns the value of the first present key, mirroring how
// providers shuffle field names between payload revisions.
func pickFirst(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// pickString is pickFirst for identifier fields, stringifying scalars.
func pickString(m map[string]any, keys ...string) string {
	raw, ok := pickFirst(m, keys...)
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// snippet captures a bounded JSON fragment of the original payload entry.
func snippet(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	if len(encoded) > maxSnippetLen {
		encoded = encoded[:maxSnippetLen]
	}
	return string(encoded)
}
