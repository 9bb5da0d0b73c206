package qsearch

import (
	"math/rand/v2"
	"sort"
)

// cumulative turns probabilities into a running sum for inverse-transform sampling.
func cumulative(probs []float64) []float64 {
	out := make([]float64, len(probs))
	total := 0.0

	for i, p := range probs {
		total += p
		out[i] = total
	}

	return out
}

/*
measure collapses the register once: it draws r in [0, total) and returns the
first basis state whose cumulative probability exceeds it.
*/
func measure(cumulative []float64, rng *rand.Rand) int {
	total := cumulative[len(cumulative)-1]
	r := rng.Float64() * total

	i := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > r
	})

	if i == len(cumulative) {
		i--
	}

	return i
}

// measureBatch runs shots independent measurements and counts the outcomes.
func measureBatch(cumulative []float64, shots int, rng *rand.Rand) []int {
	counts := make([]int, len(cumulative))
	for range shots {
		counts[measure(cumulative, rng)]++
	}

	return counts
}
