package qsearch

import (
	"fmt"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/floats"
)

/*
PrepareState returns a circuit that takes the all-zero register to the given
amplitude vector, normalised. The vector must have a power-of-two length of at
least 2 and only non-negative, finite entries.

The circuit is a binary tree of rotations. Qubits are fixed from the most
significant down: for every setting of the qubits already fixed, an RY on the
next qubit splits the remaining weight of that block between its 0 and 1
halves. A setting with 0 bits on some controls is reached by wrapping the
multi-controlled RY in X gates on those controls.
*/
func PrepareState(amplitudes []float64) (*Circuit, error) {
	size := len(amplitudes)
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("state preparation needs a power-of-two length >= 2, got %d", size)
	}

	for i, a := range amplitudes {
		if a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("state preparation: amplitude %d is %v", i, a)
		}
	}

	if floats.Norm(amplitudes, 2) == 0 {
		return nil, fmt.Errorf("state preparation: zero vector")
	}

	width := bits.TrailingZeros(uint(size))
	circuit := NewCircuit("state_preparation", width)

	for q := width - 1; q >= 0; q-- {
		controls := qubitRange(q+1, width)
		half := 1 << q

		for prefix := 0; prefix < 1<<len(controls); prefix++ {
			base := prefix << (q + 1)
			zero := floats.Norm(amplitudes[base:base+half], 2)
			one := floats.Norm(amplitudes[base+half:base+2*half], 2)

			if one == 0 {
				continue
			}

			flips := make([]int, 0, len(controls))
			for j, c := range controls {
				if prefix>>j&1 == 0 {
					flips = append(flips, c)
				}
			}

			circuit.X(flips...)
			circuit.MCRY(2*math.Atan2(one, zero), q, controls...)
			circuit.X(flips...)
		}
	}

	return circuit, nil
}

// preparationError is the L2 distance between the prepared state and the normalised target.
func preparationError(prep *Circuit, amplitudes []float64) (float64, error) {
	state, err := prep.Statevector()
	if err != nil {
		return 0, err
	}

	norm := floats.Norm(amplitudes, 2)
	diff := make([]float64, len(state))

	for i, a := range state {
		re := real(a) - amplitudes[i]/norm
		diff[i] = math.Hypot(re, imag(a))
	}

	return floats.Norm(diff, 2), nil
}
