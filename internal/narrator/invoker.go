package narrator

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Invoker owns the process-wide backend handle. The handle is created on
// first use and memoized, including failure: a failed load is remembered and
// reported on every subsequent call, never retried automatically. Concurrent
// first calls cannot race to construct duplicate handles.
type Invoker struct {
	once    sync.Once
	factory func() (Client, error)
	client  Client
	err     error
	logger  *zap.Logger
}

// NewInvoker creates an Invoker around a backend factory. The factory runs at
// most once, on the first GetClient or Generate call.
func NewInvoker(factory func() (Client, error), logger *zap.Logger) *Invoker {
	return &Invoker{
		factory: factory,
		logger:  logger.Named("NarratorInvoker"),
	}
}

// GetClient returns the memoized backend handle or the cached init failure.
func (i *Invoker) GetClient() (Client, error) {
	i.once.Do(func() {
		i.logger.Info("Initializing narrator backend...")
		i.client, i.err = i.factory()
		if i.err != nil {
			i.logger.Error("Narrator backend initialization failed; failure is cached", zap.Error(i.err))
			return
		}
		i.logger.Info("Narrator backend initialized")
	})
	return i.client, i.err
}

// Generate runs one completion and trims surrounding whitespace from the
// result. Initialization and generation failures both surface as errors; the
// caller maps them to the in-character fallback message.
func (i *Invoker) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	client, err := i.GetClient()
	if err != nil {
		return "", err
	}

	text, err := client.Complete(ctx, prompt, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
