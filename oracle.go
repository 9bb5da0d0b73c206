package qsearch

import "fmt"

// targetPattern is one marked basis state, with the qubits holding a 0 in it.
type targetPattern struct {
	bits  string
	zeros []int
}

/*
parsePattern reads an MSB-first bit string into LSB-first qubit positions:
character width-1-q of the string is qubit q.
*/
func parsePattern(target string, width int) (targetPattern, error) {
	if len(target) != width {
		return targetPattern{}, fmt.Errorf(
			"marked state %q has %d bits, register has %d", target, len(target), width,
		)
	}

	pattern := targetPattern{bits: target}
	for q := 0; q < width; q++ {
		switch target[width-1-q] {
		case '0':
			pattern.zeros = append(pattern.zeros, q)
		case '1':
		default:
			return targetPattern{}, fmt.Errorf("marked state %q is not a bit string", target)
		}
	}

	return pattern, nil
}

/*
BuildOracle returns the phase oracle for the marked states: -1 on each of them,
+1 on every other basis state. Each marked state compiles to X on its 0 qubits,
a Z on qubit width-1 controlled by all lower qubits, and the same X gates again.
Repeated marked states are compiled once, two identical blocks would cancel.
*/
func BuildOracle(width int, marked []string) (*Circuit, error) {
	if width < 1 {
		return nil, fmt.Errorf("oracle needs at least one qubit, got %d", width)
	}

	oracle := NewCircuit("oracle", width)
	controls := qubitRange(0, width-1)
	seen := make(map[string]struct{}, len(marked))

	for _, target := range marked {
		if _, ok := seen[target]; ok {
			continue
		}

		pattern, err := parsePattern(target, width)
		if err != nil {
			return nil, err
		}

		seen[target] = struct{}{}

		oracle.X(pattern.zeros...)
		oracle.MCZ(width-1, controls...)
		oracle.X(pattern.zeros...)
	}

	return oracle, nil
}
