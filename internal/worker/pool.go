package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool bounds the number of concurrently running generation jobs so a handful
// of slow model calls cannot starve the process, while callers from unrelated
// sessions are never serialized behind each other beyond that bound.
type Pool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a Pool running at most size jobs at once.
func New(size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 2
	}
	return &Pool{
		sem:    make(chan struct{}, size),
		logger: logger.Named("WorkerPool"),
	}
}

// Do runs fn as an independent unit of work and waits for its result. Waiting
// for a free worker honors ctx cancellation; the job itself receives the same
// ctx and is expected to honor it too.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	type result struct {
		text string
		err  error
	}
	resultCh := make(chan result, 1)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		text, err := fn(ctx)
		resultCh <- result{text: text, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.text, res.err
	case <-ctx.Done():
		// The job keeps running to completion in the background; its result
		// is dropped. No mid-generation cancellation is required.
		p.logger.Warn("Caller abandoned generation job", zap.Error(ctx.Err()))
		return "", ctx.Err()
	}
}

// Wait blocks until all in-flight jobs have finished. Used on shutdown.
func (p *Pool) Wait() {
	p.wg.Wait()
}
