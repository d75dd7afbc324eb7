package stats

import (
	"sort"
	"strconv"
)

// Bucket is one bar of a distribution.
type Bucket struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution returns one bucket per key in the given order, followed by
// buckets for any other keys seen in the records (Unknown last) so that the
// counts add up to len(records).
func Distribution[T any](records []T, field func(T) string, keys ...string) []Bucket {
	counts := CountByField(records, field)
	total := len(records)

	buckets := make([]Bucket, 0, len(keys)+1)
	listed := make(map[string]bool, len(keys))
	for _, k := range keys {
		listed[k] = true
		buckets = append(buckets, Bucket{Key: k, Count: counts[k], Percentage: PercentageOf(counts[k], total)})
	}

	for _, k := range sortedKeys(counts) {
		if listed[k] || k == Unknown {
			continue
		}
		buckets = append(buckets, Bucket{Key: k, Count: counts[k], Percentage: PercentageOf(counts[k], total)})
	}
	if n := counts[Unknown]; n > 0 && !listed[Unknown] {
		buckets = append(buckets, Bucket{Key: Unknown, Count: n, Percentage: PercentageOf(n, total)})
	}

	return buckets
}

// RatingBuckets is the 5-to-1 star distribution of the ratings.
func RatingBuckets[T any](records []T, rating func(T) int) []Bucket {
	return Distribution(records, func(r T) string {
		v := rating(r)
		if v < 1 || v > 5 {
			return ""
		}
		return strconv.Itoa(v)
	}, "5", "4", "3", "2", "1")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
