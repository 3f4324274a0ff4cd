package narrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrGenerationFailed wraps any runtime failure during inference.
var ErrGenerationFailed = errors.New("narrator generation failed")

// GenerationParams are the decoding parameters for one call. Stop sequences
// must match the active template's role/end-of-turn markers so generation
// halts before the model invents a new role header.
type GenerationParams struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// Client is the opaque generation capability the core depends on. Swapping
// the backend only changes the template choice and decoding parameters.
type Client interface {
	// Complete runs one completion over an already-templated prompt and
	// returns the raw model output.
	Complete(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// Backend provider names accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config selects and parameterizes the generation backend.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// NewClient creates the backend client for the configured provider.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama, "":
		return newOllamaClient(cfg, logger)
	case ProviderOpenAI:
		return newOpenAIClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown narrator provider %q", cfg.Provider)
	}
}

// --- Ollama backend ---

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newOllamaClient(cfg Config, logger *zap.Logger) (Client, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/v1")
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	logger.Info("Ollama client created",
		zap.String("baseURL", baseURL), zap.String("model", cfg.Model), zap.Duration("timeout", cfg.Timeout))

	return &ollamaClient{
		client:  api.NewClient(parsedURL, httpClient),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("OllamaClient"),
	}, nil
}

func (c *ollamaClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		observeRequest(c.model, "error")
		return "", fmt.Errorf("%w: empty prompt", ErrGenerationFailed)
	}

	// Raw mode: the prompt is already fully templated by the assembler, the
	// server must not re-apply its own chat template.
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Raw:    true,
		Stream: func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": params.Temperature,
			"top_p":       params.TopP,
			"num_predict": params.MaxTokens,
			"stop":        params.Stop,
		},
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	c.logger.Debug("Sending request to Ollama",
		zap.String("model", c.model), zap.Int("promptBytes", len(prompt)))

	var resp api.GenerateResponse
	err := c.client.Generate(requestCtx, req, func(r api.GenerateResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("Ollama request timed out", zap.Duration("timeout", c.timeout), zap.Duration("after", duration))
		} else {
			c.logger.Error("Ollama request failed", zap.Error(err), zap.Duration("after", duration))
		}
		observeRequest(c.model, "error")
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp.Response == "" {
		c.logger.Error("Ollama returned an empty response", zap.Duration("after", duration))
		observeRequest(c.model, "error_empty_response")
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	observeRequest(c.model, "success")
	observeDuration(c.model, duration)
	observeTokens(c.model, resp.PromptEvalCount, resp.EvalCount)

	c.logger.Debug("Ollama response received",
		zap.Duration("duration", duration),
		zap.Int("promptTokens", resp.PromptEvalCount),
		zap.Int("completionTokens", resp.EvalCount),
	)
	return resp.Response, nil
}

// --- OpenAI-compatible backend ---

type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("narrator: API key is required for the openai provider")
	}

	clientConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	logger.Info("OpenAI-compatible client created",
		zap.String("baseURL", clientConfig.BaseURL), zap.String("model", cfg.Model))

	return &openAIClient{
		client: openaigo.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger.Named("OpenAIClient"),
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		observeRequest(c.model, "error")
		return "", fmt.Errorf("%w: empty prompt", ErrGenerationFailed)
	}

	startTime := time.Now()
	c.logger.Debug("Sending request to completion API",
		zap.String("model", c.model), zap.Int("promptBytes", len(prompt)))

	// The prompt is already templated, so this goes through the plain
	// completions endpoint rather than the chat one.
	resp, err := c.client.CreateCompletion(ctx, openaigo.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		Stop:        params.Stop,
	})
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Completion API request failed", zap.Error(err), zap.Duration("after", duration))
		observeRequest(c.model, "error")
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Text == "" {
		c.logger.Error("Completion API returned an empty response", zap.Duration("after", duration))
		observeRequest(c.model, "error_empty_response")
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	observeRequest(c.model, "success")
	observeDuration(c.model, duration)
	observeTokens(c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return resp.Choices[0].Text, nil
}
