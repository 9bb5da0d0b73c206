package qsearch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/theapemachine/errnie"
)

// DefaultGrowthRate is the factor between successive powers of the verification schedule.
const DefaultGrowthRate = 1.2

/*
IterationCount is the number of Grover iterations that rotates the register
closest to the marked subspace: floor(pi/4 * sqrt(states/marked)), and at
least 1 whenever something is marked.
*/
func IterationCount(states, marked int) int {
	if states <= 0 || marked <= 0 {
		return 0
	}

	t := int(math.Floor(math.Pi / 4 * math.Sqrt(float64(states)/float64(marked))))
	return max(t, 1)
}

/*
GroverOperator builds one amplification step over prep: the oracle, then a
reflection about prep|0...0> built as prep^dagger, a phase flip of |0...0>,
prep, and a global phase of pi. Together that is (2|psi><psi| - I) * oracle.
*/
func GroverOperator(prep, oracle *Circuit) (*Circuit, error) {
	if prep == nil || oracle == nil {
		return nil, errors.New("grover operator needs a state preparation and an oracle")
	}

	width := prep.Width
	grover := NewCircuit("Q", width)

	if err := grover.Append(oracle, prep.Inverse()); err != nil {
		return nil, fmt.Errorf("grover operator: %w", err)
	}

	all := qubitRange(0, width)
	grover.X(all...).MCZ(width-1, qubitRange(0, width-1)...).X(all...)

	if err := grover.Append(prep); err != nil {
		return nil, fmt.Errorf("grover operator: %w", err)
	}

	grover.GlobalPhase(math.Pi)
	return grover, nil
}

// AmplificationProblem is everything Amplify needs to know about one search.
type AmplificationProblem struct {
	StatePreparation *Circuit
	Oracle           *Circuit
	IsGoodState      func(bits string) bool
	MarkedCount      int
}

type AmplifyOptions struct {
	GrowthRate float64
}

/*
Amplification is the outcome of Amplify. Distribution comes from the nominal
run with Iterations Grover steps. Powers lists every power the verification
schedule executed, the first one being Iterations, and TopMeasurement is the
most probable state of the last of them.
*/
type Amplification struct {
	Iterations     int
	Powers         []int
	TopMeasurement string
	OracleAccepted bool
	Distribution   *Distribution
	Operator       *Circuit
	Circuit        *Circuit
}

/*
Amplify prepares the register, applies the Grover operator IterationCount
times and executes the result to get the measured distribution. It then checks
the outcome: while the most probable state is not a good state it retries with
more iterations, growing the power by GrowthRate up to about sqrt(N). The
schedule is fixed by the problem alone, so two runs with the same executor
seed agree.
*/
func Amplify(
	ctx context.Context, problem AmplificationProblem, exec Executor, opts AmplifyOptions,
) (*Amplification, error) {
	prep := problem.StatePreparation
	if prep == nil || problem.Oracle == nil {
		return nil, errors.New("amplify: state preparation and oracle are required")
	}

	if problem.Oracle.Width != prep.Width {
		return nil, fmt.Errorf(
			"amplify: oracle has %d qubits, state preparation %d", problem.Oracle.Width, prep.Width,
		)
	}

	if problem.MarkedCount < 1 {
		return nil, errors.New("amplify: nothing is marked")
	}

	isGood := problem.IsGoodState
	if isGood == nil {
		isGood = func(string) bool { return true }
	}

	rate := opts.GrowthRate
	if rate <= 1 {
		rate = DefaultGrowthRate
	}

	grover, err := GroverOperator(prep, problem.Oracle)
	if err != nil {
		return nil, err
	}

	t := IterationCount(1<<prep.Width, problem.MarkedCount)
	limit := max(t, int(math.Ceil(math.Pow(2, float64(prep.Width)/2))))

	errnie.Info("Amplify - width %d, marked %d, iterations %d, limit %d",
		prep.Width, problem.MarkedCount, t, limit,
	)

	circuit, err := powerCircuit(prep, grover, t)
	if err != nil {
		return nil, err
	}

	dist, err := exec.Execute(ctx, circuit)
	if err != nil {
		return nil, fmt.Errorf("amplify: power %d: %w", t, err)
	}

	result := &Amplification{
		Iterations:     t,
		Powers:         []int{t},
		TopMeasurement: dist.Top(),
		Distribution:   dist,
		Operator:       grover,
		Circuit:        circuit,
	}
	result.OracleAccepted = isGood(result.TopMeasurement)

	for power := t; !result.OracleAccepted; {
		if power = nextPower(power, rate); power > limit {
			break
		}

		check, err := powerCircuit(prep, grover, power)
		if err != nil {
			return nil, err
		}

		checked, err := exec.Execute(ctx, check)
		if err != nil {
			return nil, fmt.Errorf("amplify: power %d: %w", power, err)
		}

		result.Powers = append(result.Powers, power)
		result.TopMeasurement = checked.Top()
		result.OracleAccepted = isGood(result.TopMeasurement)
	}

	return result, nil
}

func nextPower(power int, rate float64) int {
	return max(power+1, int(float64(power)*rate))
}

// powerCircuit is prep followed by power copies of grover.
func powerCircuit(prep, grover *Circuit, power int) (*Circuit, error) {
	circuit := NewCircuit(fmt.Sprintf("amplify_%d", power), prep.Width)

	if err := circuit.Append(prep); err != nil {
		return nil, err
	}

	for range power {
		if err := circuit.Append(grover); err != nil {
			return nil, err
		}
	}

	return circuit, nil
}
