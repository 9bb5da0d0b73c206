package qsearch

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MaxUnitaryWidth bounds Unitary; the matrix has 4^n entries.
const MaxUnitaryWidth = 10

// GateKind identifies the primitive operation a Gate applies.
type GateKind uint8

const (
	GateX GateKind = iota
	GateZ
	GateRY
	GatePhase
)

func (k GateKind) String() string {
	switch k {
	case GateX:
		return "x"
	case GateZ:
		return "z"
	case GateRY:
		return "ry"
	case GatePhase:
		return "gphase"
	default:
		return fmt.Sprintf("gate(%d)", uint8(k))
	}
}

/*
Gate is one primitive operation on the register. Controls are qubits that
must all be 1 for the gate to act. Qubit q is bit q of the basis state index,
so qubit 0 is the least significant bit. GatePhase ignores Target and Controls
and multiplies the whole register by e^(i*Theta).
*/
type Gate struct {
	Kind     GateKind
	Target   int
	Controls []int
	Theta    float64
}

// Name follows the usual circuit notation: x, cx, mcx, z, cz, mcz, ry, cry, mcry, gphase.
func (g Gate) Name() string {
	if g.Kind == GatePhase {
		return g.Kind.String()
	}

	switch len(g.Controls) {
	case 0:
		return g.Kind.String()
	case 1:
		return "c" + g.Kind.String()
	default:
		return "mc" + g.Kind.String()
	}
}

func (g Gate) inverse() Gate {
	switch g.Kind {
	case GateRY, GatePhase:
		g.Theta = -g.Theta
	}

	return g
}

func (g Gate) validate(width int) error {
	if g.Kind == GatePhase {
		return nil
	}

	if g.Target < 0 || g.Target >= width {
		return fmt.Errorf("%s: target %d outside a %d-qubit register", g.Name(), g.Target, width)
	}

	seen := map[int]bool{g.Target: true}
	for _, c := range g.Controls {
		if c < 0 || c >= width {
			return fmt.Errorf("%s: control %d outside a %d-qubit register", g.Name(), c, width)
		}

		if seen[c] {
			return fmt.Errorf("%s: qubit %d used twice", g.Name(), c)
		}

		seen[c] = true
	}

	return nil
}

func (g Gate) apply(state []complex128) {
	if g.Kind == GatePhase {
		phase := complex(math.Cos(g.Theta), math.Sin(g.Theta))
		for i := range state {
			state[i] *= phase
		}

		return
	}

	mask := 0
	for _, c := range g.Controls {
		mask |= 1 << c
	}

	bit := 1 << g.Target

	switch g.Kind {
	case GateX:
		for i := range state {
			if i&bit == 0 && i&mask == mask {
				j := i | bit
				state[i], state[j] = state[j], state[i]
			}
		}
	case GateZ:
		for i := range state {
			if i&bit != 0 && i&mask == mask {
				state[i] = -state[i]
			}
		}
	case GateRY:
		c := complex(math.Cos(g.Theta/2), 0)
		s := complex(math.Sin(g.Theta/2), 0)
		for i := range state {
			if i&bit == 0 && i&mask == mask {
				j := i | bit
				a, b := state[i], state[j]
				state[i] = c*a - s*b
				state[j] = s*a + c*b
			}
		}
	}
}

/*
Circuit is a composable unit: an ordered list of gates over a fixed-width
register. State preparation, the oracle and the Grover operator are all
Circuits, so they compose, invert and count their resources the same way.
*/
type Circuit struct {
	Name  string
	Width int
	Gates []Gate
}

func NewCircuit(name string, width int) *Circuit {
	return &Circuit{
		Name:  name,
		Width: width,
		Gates: make([]Gate, 0),
	}
}

// X appends an uncontrolled bit flip on every target.
func (c *Circuit) X(targets ...int) *Circuit {
	for _, t := range targets {
		c.Gates = append(c.Gates, Gate{Kind: GateX, Target: t})
	}

	return c
}

// MCZ appends a phase flip on target conditioned on every control being 1.
func (c *Circuit) MCZ(target int, controls ...int) *Circuit {
	c.Gates = append(c.Gates, Gate{Kind: GateZ, Target: target, Controls: controls})
	return c
}

// MCRY appends a Y rotation by theta on target conditioned on every control being 1.
func (c *Circuit) MCRY(theta float64, target int, controls ...int) *Circuit {
	c.Gates = append(c.Gates, Gate{Kind: GateRY, Target: target, Controls: controls, Theta: theta})
	return c
}

func (c *Circuit) GlobalPhase(theta float64) *Circuit {
	c.Gates = append(c.Gates, Gate{Kind: GatePhase, Theta: theta})
	return c
}

// Append copies the gates of others onto the end of c.
func (c *Circuit) Append(others ...*Circuit) error {
	for _, other := range others {
		if other.Width != c.Width {
			return fmt.Errorf(
				"cannot append %q (%d qubits) to %q (%d qubits)",
				other.Name, other.Width, c.Name, c.Width,
			)
		}

		c.Gates = append(c.Gates, other.Gates...)
	}

	return nil
}

// Inverse returns the adjoint: gates reversed, rotations negated.
func (c *Circuit) Inverse() *Circuit {
	inv := NewCircuit(c.Name+"_dg", c.Width)
	inv.Gates = make([]Gate, len(c.Gates))

	for i, g := range c.Gates {
		inv.Gates[len(c.Gates)-1-i] = g.inverse()
	}

	return inv
}

func (c *Circuit) Validate() error {
	if c.Width < 1 {
		return fmt.Errorf("circuit %q has no qubits", c.Name)
	}

	var errs []error
	for i, g := range c.Gates {
		if err := g.validate(c.Width); err != nil {
			errs = append(errs, fmt.Errorf("gate %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Apply evolves state in place. The state must hold exactly 2^Width amplitudes.
func (c *Circuit) Apply(state []complex128) error {
	if len(state) != 1<<c.Width {
		return fmt.Errorf(
			"circuit %q expects %d amplitudes, got %d", c.Name, 1<<c.Width, len(state),
		)
	}

	if err := c.Validate(); err != nil {
		return err
	}

	for _, g := range c.Gates {
		g.apply(state)
	}

	return nil
}

// Statevector runs the circuit on the all-zero register.
func (c *Circuit) Statevector() ([]complex128, error) {
	if c.Width < 1 || c.Width > MaxRegisterWidth {
		return nil, fmt.Errorf("circuit %q: unsupported width %d", c.Name, c.Width)
	}

	state := make([]complex128, 1<<c.Width)
	state[0] = 1

	if err := c.Apply(state); err != nil {
		return nil, err
	}

	return state, nil
}

// CountOps tallies gates by Name.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Gates {
		counts[g.Name()]++
	}

	return counts
}

// Size is the number of gates, global phases excluded.
func (c *Circuit) Size() int {
	size := 0
	for _, g := range c.Gates {
		if g.Kind != GatePhase {
			size++
		}
	}

	return size
}

// OpNames lists the gate names present, sorted.
func (c *Circuit) OpNames() []string {
	counts := c.CountOps()
	names := make([]string, 0, len(counts))

	for name := range counts {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

/*
Unitary builds the explicit operator matrix, column j being the circuit applied
to basis state j. Only registers up to MaxUnitaryWidth qubits are accepted.
*/
func (c *Circuit) Unitary() (*mat.CDense, error) {
	if c.Width > MaxUnitaryWidth {
		return nil, fmt.Errorf(
			"circuit %q: %d qubits exceeds the unitary limit of %d", c.Name, c.Width, MaxUnitaryWidth,
		)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	dim := 1 << c.Width
	u := mat.NewCDense(dim, dim, nil)
	column := make([]complex128, dim)

	for j := 0; j < dim; j++ {
		clear(column)
		column[j] = 1

		for _, g := range c.Gates {
			g.apply(column)
		}

		for i, v := range column {
			u.Set(i, j, v)
		}
	}

	return u, nil
}

func qubitRange(from, to int) []int {
	qubits := make([]int, 0, max(to-from, 0))
	for q := from; q < to; q++ {
		qubits = append(qubits, q)
	}

	return qubits
}
