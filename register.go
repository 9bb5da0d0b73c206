package qsearch

import (
	"fmt"
	"math/bits"
	"strconv"
)

// MaxRegisterWidth bounds the simulated register; the statevector holds 2^n amplitudes.
const MaxRegisterWidth = 20

/*
RegisterWidth returns the number of qubits needed to hold every value and the
threshold k, that is ceil(log2(max(max(values), k) + 1)), and never less than 1.
Input is validated first: the list must be non-empty, k positive and every
value non-negative.
*/
func RegisterWidth(k int, values []int) (int, error) {
	if len(values) == 0 {
		return 0, invalidInput("value list is empty")
	}

	if k <= 0 {
		return 0, invalidInput("threshold must be positive, got %d", k)
	}

	largest := k
	for _, v := range values {
		if v < 0 {
			return 0, invalidInput("values must be non-negative, got %d", v)
		}

		largest = max(largest, v)
	}

	width := max(bits.Len(uint(largest)), 1)
	if width > MaxRegisterWidth {
		return 0, invalidInput(
			"register width %d exceeds the simulator limit of %d", width, MaxRegisterWidth,
		)
	}

	return width, nil
}

// Bits formats v as a zero-padded, most-significant-bit-first string of width characters.
func Bits(v, width int) string {
	return fmt.Sprintf("%0*b", width, v)
}

// ParseBits decodes a most-significant-bit-first bit string.
func ParseBits(s string) (int, error) {
	v, err := strconv.ParseUint(s, 2, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed basis state %q: %w", s, err)
	}

	return int(v), nil
}
