package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of goroutines used for large record sets
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithBatchSize sets the chunk size; smaller record sets are evaluated
// sequentially
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies a filter to record sets, fanning out over chunks when
// the set is large. Matches keep their input order.
type Evaluator struct {
	workers   int
	batchSize int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 500,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Apply returns the records matching filter. It stops early with ctx.Err()
// when ctx is canceled.
func (e *Evaluator) Apply(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	if len(records) < e.batchSize {
		return evaluateChunk(ctx, filter, records)
	}

	chunkSize := max(len(records)/e.workers, e.batchSize)
	chunks := make([][]Record, (len(records)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(records))

		g.Go(func() error {
			matches, err := evaluateChunk(ctx, filter, records[start:end])
			if err != nil {
				return err
			}
			chunks[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, chunk := range chunks {
		total += len(chunk)
	}

	matches := make([]Record, 0, total)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}

func evaluateChunk(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	matches := make([]Record, 0, len(records)/4)
	for i, record := range records {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if filter.Evaluate(record) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// Apply evaluates filter against records with a default evaluator
func Apply(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	return NewEvaluator().Apply(ctx, filter, records)
}
