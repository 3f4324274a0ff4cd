package narrator_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamemaster-server/internal/narrator"
)

type stubClient struct {
	text string
	err  error
}

func (c *stubClient) Complete(context.Context, string, narrator.GenerationParams) (string, error) {
	return c.text, c.err
}

func TestInvokerInitializesOnce(t *testing.T) {
	var calls int32
	client := &stubClient{text: "ok"}
	invoker := narrator.NewInvoker(func() (narrator.Client, error) {
		atomic.AddInt32(&calls, 1)
		return client, nil
	}, zap.NewNop())

	first, err := invoker.GetClient()
	require.NoError(t, err)
	second, err := invoker.GetClient()
	require.NoError(t, err)

	// Same handle instance both times, factory ran exactly once.
	assert.Same(t, client, first)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestInvokerCachesFailure(t *testing.T) {
	var calls int32
	bootErr := errors.New("model file not found")
	invoker := narrator.NewInvoker(func() (narrator.Client, error) {
		atomic.AddInt32(&calls, 1)
		return nil, bootErr
	}, zap.NewNop())

	_, err := invoker.GetClient()
	require.ErrorIs(t, err, bootErr)

	// A permanent failure is remembered, never retried.
	_, err = invoker.GetClient()
	require.ErrorIs(t, err, bootErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = invoker.Generate(context.Background(), "prompt", narrator.AdventureParams(nil))
	require.ErrorIs(t, err, bootErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestInvokerConcurrentFirstUse(t *testing.T) {
	var calls int32
	invoker := narrator.NewInvoker(func() (narrator.Client, error) {
		atomic.AddInt32(&calls, 1)
		return &stubClient{text: "ok"}, nil
	}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := invoker.GetClient()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateTrimsWhitespace(t *testing.T) {
	invoker := narrator.NewInvoker(func() (narrator.Client, error) {
		return &stubClient{text: "  \nThe cave mouth yawns before you.\n  "}, nil
	}, zap.NewNop())

	text, err := invoker.Generate(context.Background(), "prompt", narrator.AdventureParams(nil))
	require.NoError(t, err)
	assert.Equal(t, "The cave mouth yawns before you.", text)
}

func TestGenerationParamPresets(t *testing.T) {
	stops := []string{"<|eot_id|>"}

	adventure := narrator.AdventureParams(stops)
	assert.Equal(t, 400, adventure.MaxTokens)
	assert.InDelta(t, 0.7, adventure.Temperature, 0.001)
	assert.InDelta(t, 0.9, adventure.TopP, 0.001)
	assert.Equal(t, stops, adventure.Stop)

	opening := narrator.OpeningParams(stops)
	assert.Equal(t, 900, opening.MaxTokens)
	assert.InDelta(t, 0.8, opening.Temperature, 0.001)
}
