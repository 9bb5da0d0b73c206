package qsearch

import (
	"math"
	"sort"
)

const bandGuard = 1e-12

/*
ExtractResults reads the answer off a distribution. The probability of the
reference state, rounded to one decimal, is the centre of a band of half-width
tolerance; every state inside the band is decoded and returned in ascending
order. An empty reference falls back to the most probable state.
*/
func ExtractResults(dist *Distribution, reference string, tolerance float64) []int {
	results := make([]int, 0)
	if dist == nil || len(dist.Probabilities) == 0 {
		return results
	}

	if reference == "" {
		reference = dist.Top()
	}

	centre := roundTenth(dist.Probability(reference))
	low := centre - tolerance - bandGuard
	high := centre + tolerance + bandGuard

	for _, state := range dist.States() {
		p := dist.Probability(state)
		if p < low || p > high {
			continue
		}

		if v, err := ParseBits(state); err == nil {
			results = append(results, v)
		}
	}

	sort.Ints(results)
	return results
}

func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
