package core

import (
	"math"
)

// Entropy computes the Shannon entropy of data in bits per byte. The result
// is 0 for empty input and at most 8 for a uniform byte distribution. The
// function is total: it never fails for any buffer, and it is window
// agnostic, so callers may pass a prefix of a larger file.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	total := float64(len(data))
	entropy := 0.0
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// RoundEntropy rounds an entropy value to two decimal places for reporting.
func RoundEntropy(entropy float64) float64 {
	return math.Round(entropy*100) / 100
}
