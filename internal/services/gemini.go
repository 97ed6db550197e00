package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/candidate-ranker/internal/logger"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultEmbedModel  = "text-embedding-004"
	defaultCallTimeout = 60 * time.Second
	maxEmbeddingChars  = 40000
)

// TextGenerator produces free-form text for a single prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// JSONGenerator produces a JSON document constrained by a system instruction.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Embedder turns text into a dense vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	TextGenerator
	JSONGenerator
	Embedder
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
	Model() string
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	EmbedModel  string
	CallTimeout time.Duration
	// BaseURL overrides the API endpoint, used against local fakes.
	BaseURL string
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	callTimeout time.Duration
	log         *zap.Logger
}

var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (GeminiService, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	embedModel := strings.TrimSpace(opts.EmbedModel)
	if embedModel == "" {
		embedModel = defaultEmbedModel
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &geminiService{
		client:      client,
		modelName:   model,
		embedModel:  embedModel,
		callTimeout: timeout,
		log:         logger.OrNop(log).With(zap.String("ai_provider", "gemini"), zap.String("ai_model", model)),
	}, nil
}

func (g *geminiService) Model() string {
	return g.modelName
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Long inputs are truncated to stay under the embedding token limit.
	text = truncateUTF8(text, maxEmbeddingChars)

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, &ModelInvocationError{Op: "embed", Err: err}
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, &ModelInvocationError{Op: "embed", Err: errors.New("empty embedding result")}
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	return g.generate(ctx, "generate_text", prompt, config)
}

// GenerateJSON implements JSONGenerator.
func (g *geminiService) GenerateJSON(ctx context.Context, systemInstruction, prompt string) (string, error) {
	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   8192,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	return g.generate(ctx, "generate_json", prompt, config)
}

// GenerateTextWithRetry retries model invocation failures with a linear backoff.
// Cancellation of ctx stops the loop immediately.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", &ModelInvocationError{Op: "generate_text", Err: ctx.Err()}
		}

		if attempt < maxRetries {
			g.log.Warn("gemini call failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxRetries),
				zap.Error(err),
			)
			if err := sleep(ctx, time.Duration(attempt)*time.Second); err != nil {
				return "", &ModelInvocationError{Op: "generate_text", Err: err}
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (g *geminiService) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &ModelInvocationError{Op: op, Err: errors.New("prompt must not be empty")}
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.log.Warn("gemini call failed", zap.String("op", op), zap.Duration("latency", time.Since(started)), zap.Error(err))
		return "", &ModelInvocationError{Op: op, Err: err}
	}

	output := collectText(resp)
	if output == "" {
		return "", &ModelInvocationError{Op: op, Err: errors.New("gemini api returned empty response")}
	}

	g.log.Debug("gemini call completed",
		zap.String("op", op),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(output)),
		zap.Duration("latency", time.Since(started)),
	)

	return output, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// Only the first usable candidate is returned.
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
