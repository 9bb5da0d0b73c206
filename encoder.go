package qsearch

import (
	"gonum.org/v1/gonum/floats"
)

/*
Problem is the encoded form of a "values below k" query: the normalised
initial amplitude vector over the register and the basis states the oracle
has to mark. A Problem is built once per query and never modified.
*/
type Problem struct {
	Threshold  int
	Width      int
	Amplitudes []float64
	Marked     []string

	marked   map[int]struct{}
	distinct int
}

/*
Encode sets amplitude 1 on every value in the list, normalises the vector and
collects the bit strings of the values below k. Repeated values collapse: they
neither raise an amplitude nor appear twice in the marked set. The width is
expected to come from RegisterWidth.
*/
func Encode(k int, values []int, width int) (Problem, error) {
	size := 1 << width
	problem := Problem{
		Threshold:  k,
		Width:      width,
		Amplitudes: make([]float64, size),
		Marked:     make([]string, 0),
		marked:     make(map[int]struct{}),
	}

	for _, v := range values {
		if v < 0 || v >= size {
			return Problem{}, invalidInput("value %d does not fit a %d-qubit register", v, width)
		}

		if problem.Amplitudes[v] == 0 {
			problem.distinct++
		}

		problem.Amplitudes[v] = 1

		if v >= k {
			continue
		}

		if _, ok := problem.marked[v]; ok {
			continue
		}

		problem.marked[v] = struct{}{}
		problem.Marked = append(problem.Marked, Bits(v, width))
	}

	if norm := floats.Norm(problem.Amplitudes, 2); norm > 0 {
		floats.Scale(1/norm, problem.Amplitudes)
	}

	return problem, nil
}

// IsMarked reports whether basis state index is one of the marked values.
func (p Problem) IsMarked(index int) bool {
	_, ok := p.marked[index]
	return ok
}

// IsGoodState is IsMarked for a most-significant-bit-first bit string.
func (p Problem) IsGoodState(bits string) bool {
	index, err := ParseBits(bits)
	if err != nil {
		return false
	}

	return p.IsMarked(index)
}

func (p Problem) MarkedCount() int {
	return len(p.Marked)
}

// Distinct is the number of distinct values, i.e. the support of the amplitude vector.
func (p Problem) Distinct() int {
	return p.distinct
}
