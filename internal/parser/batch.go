package parser

import (
	"context"

	"github.com/eddiefleurent/tradelog/internal/models"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of parsing one input in a batch.
type Result struct {
	Input string
	Trade *models.Trade
	Err   error
}

// OK reports whether the input parsed.
func (r Result) OK() bool {
	return r.Err == nil && r.Trade != nil
}

// ParseAll parses inputs concurrently with at most workers goroutines
// (unbounded when workers <= 0). Results are returned in input order; parse
// failures are recorded per result. The returned error is non-nil only when
// ctx is canceled before every input has been parsed.
func (p *Parser) ParseAll(ctx context.Context, inputs []string, workers int) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trade, err := p.Parse(input)
			results[i] = Result{Input: input, Trade: trade, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
