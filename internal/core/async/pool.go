package async

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Pool runs indexed tasks with bounded concurrency. Callers write results into
// slots keyed by the index, which keeps output order independent of scheduling.
type Pool struct {
	logger  *slog.Logger
	workers int
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewPool(logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{logger: logger, workers: 1}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pool) Workers() int { return p.workers }

// Run calls fn(ctx, i) for i in [0, n). With one worker the calls happen in index
// order on the calling goroutine. Cancelling ctx stops scheduling; calls already
// started run to completion. Run returns ctx.Err() if it stopped early.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if p.workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				p.logger.Warn("run cancelled", "scheduled", i, "total", n)
				return err
			}
			fn(ctx, i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	scheduled := 0
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
		scheduled++
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		p.logger.Warn("run cancelled", "scheduled", scheduled, "total", n)
		return err
	}
	p.logger.Debug("pool drained", "workers", p.workers, "tasks", n)
	return nil
}
