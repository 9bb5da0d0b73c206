package qsearch

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/floats"
)

// Answer holds both renditions of a query. Diagnostics is nil when nothing was below k.
type Answer struct {
	Classical   []int
	Quantum     []int
	Diagnostics *Diagnostics
}

/*
Query is the immutable context one LessThanK call threads through the
pipeline. Every stage reads from it and returns new values; nothing writes
back into it.
*/
type Query struct {
	ID        string
	Threshold int
	Values    []int
	Problem   Problem
}

/*
Solver answers "which values are below k" by amplitude amplification over a
simulated register. A Solver has no per-query state and may be shared between
goroutines.
*/
type Solver struct {
	config   *Config
	executor Executor
	metrics  *Metrics
}

type SolverOption func(*Solver)

// WithExecutor replaces the executor the configured mode would select.
func WithExecutor(exec Executor) SolverOption {
	return func(s *Solver) {
		s.executor = exec
	}
}

func WithMetrics(metrics *Metrics) SolverOption {
	return func(s *Solver) {
		s.metrics = metrics
	}
}

// NewSolver validates cfg, nil meaning NewConfig, and applies its log level.
func NewSolver(cfg *Config, opts ...SolverOption) (*Solver, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solver config: %w", err)
	}

	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	s := &Solver{
		config:   cfg,
		executor: cfg.Executor(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// ClassicalLessThanK is the plain filter, keeping input order and repeats.
func ClassicalLessThanK(k int, values []int) []int {
	out := make([]int, 0)
	for _, v := range values {
		if v < k {
			out = append(out, v)
		}
	}

	return out
}

/*
LessThanK encodes values into a register, marks the ones below k, amplifies
them and reads them back off the distribution within the configured
tolerance. Invalid input fails with *InvalidInputError before anything else
happens. When nothing is below k the amplifier is skipped and Quantum is empty.
*/
func (s *Solver) LessThanK(ctx context.Context, k int, values []int) (*Answer, error) {
	start := time.Now()

	width, err := RegisterWidth(k, values)
	if err != nil {
		s.metrics.recordQuery(start, OutcomeInvalid)
		return nil, err
	}

	problem, err := Encode(k, values, width)
	if err != nil {
		s.metrics.recordQuery(start, OutcomeInvalid)
		return nil, err
	}

	query := Query{
		ID:        uuid.NewString(),
		Threshold: k,
		Values:    slices.Clone(values),
		Problem:   problem,
	}

	errnie.Info(
		"LessThanK - query %s, k %d, width %d, marked %d",
		query.ID, k, width, problem.MarkedCount(),
	)

	answer := &Answer{
		Classical: ClassicalLessThanK(k, values),
		Quantum:   []int{},
	}

	if problem.MarkedCount() == 0 {
		s.metrics.recordQuery(start, OutcomeEmpty)
		return answer, nil
	}

	diag, err := s.amplify(ctx, query)
	if err != nil {
		s.metrics.recordQuery(start, OutcomeFailed)
		return nil, fmt.Errorf("query %s: %w", query.ID, err)
	}

	reference := ""
	if diag.OracleAccepted {
		reference = diag.TopMeasurement
	}

	answer.Quantum = ExtractResults(diag.Distribution, reference, s.config.Tolerance)
	answer.Diagnostics = diag

	if len(answer.Quantum) == 0 {
		s.metrics.recordQuery(start, OutcomeMissed)
		return answer, nil
	}

	s.metrics.recordQuery(start, OutcomeFound)
	return answer, nil
}

func (s *Solver) amplify(ctx context.Context, query Query) (*Diagnostics, error) {
	problem := query.Problem
	diag := &Diagnostics{
		QueryID:   query.ID,
		Threshold: query.Threshold,
		Width:     problem.Width,
	}

	amplitudes := slices.Clone(problem.Amplitudes)
	norm := floats.Norm(amplitudes, 2)

	if deviation := math.Abs(norm - 1); deviation > s.config.PrecisionTolerance {
		s.warn(diag, NumericalPrecisionWarning{
			Stage:     "amplitudes",
			Deviation: deviation,
			Tolerance: s.config.PrecisionTolerance,
		})
		floats.Scale(1/norm, amplitudes)
	}

	prep, err := PrepareState(amplitudes)
	if err != nil {
		return nil, err
	}

	deviation, err := preparationError(prep, amplitudes)
	if err != nil {
		return nil, err
	}

	if deviation > s.config.PrecisionTolerance {
		s.warn(diag, NumericalPrecisionWarning{
			Stage:     "state_preparation",
			Deviation: deviation,
			Tolerance: s.config.PrecisionTolerance,
		})
	}

	oracle, err := BuildOracle(problem.Width, problem.Marked)
	if err != nil {
		return nil, err
	}

	amp, err := Amplify(ctx, AmplificationProblem{
		StatePreparation: prep,
		Oracle:           oracle,
		IsGoodState:      problem.IsGoodState,
		MarkedCount:      problem.MarkedCount(),
	}, s.executor, AmplifyOptions{GrowthRate: s.config.GrowthRate})
	if err != nil {
		return nil, err
	}

	dist := amp.Distribution
	s.metrics.recordRounds(len(amp.Powers), dist.Shots)

	tolerance := s.config.PrecisionTolerance
	if dist.Shots > 0 {
		tolerance = 3 / math.Sqrt(float64(dist.Shots))
	}

	if deviation := math.Abs(dist.Total() - 1); deviation > tolerance {
		s.warn(diag, NumericalPrecisionWarning{
			Stage:     "distribution",
			Deviation: deviation,
			Tolerance: tolerance,
		})
		dist.normalize()
	}

	diag.Iterations = amp.Iterations
	diag.Powers = amp.Powers
	diag.TopMeasurement = amp.TopMeasurement
	diag.OracleAccepted = amp.OracleAccepted
	diag.Distribution = dist
	diag.StatePreparation = prep
	diag.Oracle = oracle
	diag.GroverOperator = amp.Operator

	errnie.Info(
		"LessThanK - query %s, iterations %d, powers %v, top %s, accepted %v",
		query.ID, amp.Iterations, amp.Powers, amp.TopMeasurement, amp.OracleAccepted,
	)

	return diag, nil
}

func (s *Solver) warn(diag *Diagnostics, w NumericalPrecisionWarning) {
	warn(w)
	s.metrics.recordWarning(w.Stage)
	diag.Warnings = append(diag.Warnings, w)
}
