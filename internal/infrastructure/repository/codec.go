package repository

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Documents written by older clients are loosely typed: numbers arrive as
// int64, float64 or numeric strings and fields may be missing. The helpers
// below decode every field to its zero value rather than failing, so the
// domain only ever sees fully populated records.

func toDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float32:
		return floatDecimal(float64(n))
	case float64:
		return floatDecimal(n)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

func floatDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return int(toDecimal(n).IntPart())
		}
		return i
	}
	return 0
}

func decimalField(data map[string]interface{}, key string) decimal.Decimal {
	return toDecimal(data[key])
}

// amountField reads a money field that can never be negative.
func amountField(data map[string]interface{}, key string) decimal.Decimal {
	d := toDecimal(data[key])
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func intField(data map[string]interface{}, key string) int {
	return toInt(data[key])
}

func stringField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int64, float64:
		return toDecimal(v).String()
	}
	return ""
}

func timeField(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v.UTC()
	case *time.Time:
		if v != nil {
			return v.UTC()
		}
	case string:
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func timePtrField(data map[string]interface{}, key string) *time.Time {
	t := timeField(data, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

func sliceField(data map[string]interface{}, key string) []interface{} {
	if v, ok := data[key].([]interface{}); ok {
		return v
	}
	return []interface{}{}
}

func mapField(data map[string]interface{}, key string) map[string]interface{} {
	if v, ok := data[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

func stringSlice(data map[string]interface{}, key string) []string {
	raw := sliceField(data, key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// money converts an amount for storage. Firestore has no decimal type.
func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
