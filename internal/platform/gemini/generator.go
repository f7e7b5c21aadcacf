package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("flashcards").Parse(promptSource))

// maxInputRunes bounds the text sent to the model.
const maxInputRunes = 60000

type promptData struct {
	Filename string
	Text     string
}

// responseSchema is the JSON shape the prompt asks for.
type responseSchema struct {
	Flashcards []generation.Pair `json:"flashcards"`
}

// contentClient is the slice of the genai client the generator uses.
type contentClient interface {
	GenerateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
}

type genaiClient struct {
	client *genai.Client
}

func (c genaiClient) GenerateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
}

// Generator implements generation.Generator.
type Generator struct {
	client     contentClient
	model      string
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator from cfg.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(genaiClient{client: client}, cfg, logger)
}

func newGenerator(client contentClient, cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := time.Duration(cfg.RetryDelaySeconds) * time.Second
	if delay <= 0 {
		delay = time.Second
	}

	return &Generator{
		client:     client,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  delay,
		sleep:      sleepContext,
		logger:     logger.With(slog.String("component", "gemini_generator")),
	}, nil
}

// ExtractPairs implements generation.Generator. The file name is passed to
// the model as context. Pairs with a blank side are dropped.
func (g *Generator) ExtractPairs(ctx context.Context, filename, text string) ([]generation.Pair, error) {
	if strings.TrimSpace(text) == "" {
		return nil, generation.ErrEmptyInput
	}

	prompt, err := buildPrompt(filename, text)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	pairs, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, g.logger).InfoContext(ctx, "extracted flashcards",
		slog.Int("count", len(pairs)))
	return pairs, nil
}

func buildPrompt(filename, text string) (string, error) {
	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Filename: filename, Text: text}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry retries transient failures with exponential backoff and
// jitter. Invalid or blocked responses are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	for attempt := 0; ; attempt++ {
		text, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			log.WarnContext(ctx, "gemini call failed permanently",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
			return "", err
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		if attempt >= g.maxRetries {
			log.ErrorContext(ctx, "gemini retries exhausted",
				slog.Int("attempts", attempt+1),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		delay := g.backoff(attempt)
		log.InfoContext(ctx, "retrying gemini call",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a factor in [0.5, 1).
// It is called from concurrent requests, so it uses the package-level
// source.
func (g *Generator) backoff(attempt int) time.Duration {
	factor := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * factor)
}

func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, g.model, prompt)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// parseResponse decodes model output, tolerating a Markdown code fence.
func parseResponse(raw string) ([]generation.Pair, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var resp responseSchema
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	pairs := make([]generation.Pair, 0, len(resp.Flashcards))
	for _, p := range resp.Flashcards {
		p.Question = strings.TrimSpace(p.Question)
		p.Answer = strings.TrimSpace(p.Answer)
		if p.Valid() {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
