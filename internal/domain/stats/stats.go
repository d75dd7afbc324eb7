// Package stats reduces a snapshot of records into the counts, sums and
// distributions behind the dashboard cards. Every function takes the whole
// snapshot and keeps no state between calls.
package stats

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Unknown is the bucket for records whose categorical field is empty.
const Unknown = "unknown"

// CountByField counts records per selected key. Empty keys are counted
// under Unknown so the counts always add up to len(records).
func CountByField[T any](records []T, field func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		key := strings.TrimSpace(field(r))
		if key == "" {
			key = Unknown
		}
		counts[key]++
	}
	return counts
}

// PercentageOf returns count as a percentage of total, or 0 when total is 0.
func PercentageOf(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// SumField adds up the selected amount of every record.
func SumField[T any](records []T, field func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(field(r))
	}
	return sum
}

// SumInt adds up an integer field such as units sold.
func SumInt[T any](records []T, field func(T) int) int {
	sum := 0
	for _, r := range records {
		sum += field(r)
	}
	return sum
}

// AverageRating is the mean rating rounded to two places, 0 when empty.
func AverageRating[T any](records []T, rating func(T) int) float64 {
	if len(records) == 0 {
		return 0
	}
	return round2(float64(SumInt(records, rating)) / float64(len(records)))
}

// Average is the mean of a decimal field, 0 when empty.
func Average[T any](records []T, field func(T) decimal.Decimal) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return SumField(records, field).Div(decimal.NewFromInt(int64(len(records))))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
