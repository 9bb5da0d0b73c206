package qsearch

import (
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ProbabilityCutoff is the smallest probability an exact distribution reports.
const ProbabilityCutoff = 1e-10

// tieTolerance is how close to the maximum a probability must be to count as tied with it.
const tieTolerance = 1e-9

/*
Distribution maps measured basis states, as MSB-first bit strings, to their
probability. States that were never observed (sampling) or whose probability
is below ProbabilityCutoff (exact) are absent. Shots is 0 for an exact
distribution.
*/
type Distribution struct {
	Width         int
	Shots         int
	Probabilities map[string]float64
}

func newDistribution(width int, probabilities []float64, shots int) *Distribution {
	dist := &Distribution{
		Width:         width,
		Shots:         shots,
		Probabilities: make(map[string]float64),
	}

	for i, p := range probabilities {
		if p < ProbabilityCutoff {
			continue
		}

		dist.Probabilities[Bits(i, width)] = p
	}

	return dist
}

func probabilities(state []complex128) []float64 {
	probs := make([]float64, len(state))
	for i, amplitude := range state {
		m := cmplx.Abs(amplitude)
		probs[i] = m * m
	}

	return probs
}

// States returns the observed basis states in ascending order.
func (d *Distribution) States() []string {
	states := make([]string, 0, len(d.Probabilities))
	for s := range d.Probabilities {
		states = append(states, s)
	}

	sort.Strings(states)
	return states
}

func (d *Distribution) values() []float64 {
	states := d.States()
	values := make([]float64, len(states))

	for i, s := range states {
		values[i] = d.Probabilities[s]
	}

	return values
}

func (d *Distribution) Probability(state string) float64 {
	return d.Probabilities[state]
}

func (d *Distribution) Total() float64 {
	return floats.Sum(d.values())
}

/*
Top is the most probable state. Probabilities within tieTolerance of the
maximum are tied and the lowest of those states wins, so rounding noise in
the simulation never decides. Empty when nothing was observed.
*/
func (d *Distribution) Top() string {
	if len(d.Probabilities) == 0 {
		return ""
	}

	states := d.States()
	values := d.values()
	top := floats.MaxIdx(values)

	for i, p := range values {
		if values[top]-p <= tieTolerance {
			return states[i]
		}
	}

	return states[top]
}

// Decimal re-keys the distribution by decoded value.
func (d *Distribution) Decimal() map[int]float64 {
	decimal := make(map[int]float64, len(d.Probabilities))
	for s, p := range d.Probabilities {
		if v, err := ParseBits(s); err == nil {
			decimal[v] = p
		}
	}

	return decimal
}

// normalize rescales the probabilities to sum to 1 and returns the previous total.
func (d *Distribution) normalize() float64 {
	total := d.Total()
	if total <= 0 {
		return total
	}

	for s := range d.Probabilities {
		d.Probabilities[s] /= total
	}

	return total
}
