package qsearch

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Executor runs a circuit from the all-zero register and reports the outcome distribution.
type Executor interface {
	Execute(ctx context.Context, circuit *Circuit) (*Distribution, error)
}

// ExactExecutor reads the probabilities straight off the simulated statevector.
type ExactExecutor struct{}

func (ExactExecutor) Execute(ctx context.Context, circuit *Circuit) (*Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := circuit.Statevector()
	if err != nil {
		return nil, fmt.Errorf("exact execution: %w", err)
	}

	return newDistribution(circuit.Width, probabilities(state), 0), nil
}

/*
SamplingExecutor simulates the statevector, then measures it Shots times.
The shots are cut into batches of BatchSize that run on a Pool of Workers.
Every batch draws from its own generator, seeded with Seed and the batch
index, so the merged counts do not depend on which worker ran what or when.
*/
type SamplingExecutor struct {
	Shots     int
	BatchSize int
	Workers   int
	Seed      uint64
}

type batchResult struct {
	index  int
	counts []int
}

type pendingBatch struct {
	id     string
	result chan Value
}

func (s SamplingExecutor) Execute(ctx context.Context, circuit *Circuit) (*Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sampling execution: %w", err)
	}

	if s.Shots < 1 {
		return nil, fmt.Errorf("sampling execution: shots must be positive, got %d", s.Shots)
	}

	state, err := circuit.Statevector()
	if err != nil {
		return nil, fmt.Errorf("sampling execution: %w", err)
	}

	cdf := cumulative(probabilities(state))
	batchSize := max(s.BatchSize, 1)

	pool := NewPool(ctx, s.Workers)
	defer pool.Close()

	executionID := uuid.NewString()
	pending := make([]pendingBatch, 0, (s.Shots+batchSize-1)/batchSize)

	for index, remaining := 0, s.Shots; remaining > 0; index++ {
		shots := min(batchSize, remaining)
		remaining -= shots

		rng := rand.New(rand.NewPCG(s.Seed, uint64(index)))
		batch := index

		id := fmt.Sprintf("%s-batch-%d", executionID, batch)
		pending = append(pending, pendingBatch{
			id: id,
			result: pool.Schedule(id, func() (any, error) {
				return batchResult{index: batch, counts: measureBatch(cdf, shots, rng)}, nil
			}),
		})
	}

	results, err := awaitBatches(ctx, pool, pending)
	if err != nil {
		return nil, fmt.Errorf("sampling execution: %w", err)
	}

	counts := make([]int, len(cdf))
	for _, result := range results {
		for i, c := range result.counts {
			counts[i] += c
		}
	}

	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = float64(c) / float64(s.Shots)
	}

	return newDistribution(circuit.Width, probs, s.Shots), nil
}

// awaitBatches collects every batch before anything is merged, dropping each result from the pool's space once read.
func awaitBatches(ctx context.Context, pool *Pool, pending []pendingBatch) ([]batchResult, error) {
	results := make([]batchResult, 0, len(pending))

	for _, batch := range pending {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case value := <-batch.result:
			pool.space.Forget(batch.id)

			if value.Error != nil {
				return nil, value.Error
			}

			results = append(results, value.Value.(batchResult))
		}
	}

	return results, nil
}
