package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/surgeryhub/dailydose-api/internal/config"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/generation"
	"github.com/surgeryhub/dailydose-api/internal/genparse"
	"github.com/surgeryhub/dailydose-api/internal/safety"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	guard          *safety.Guard
	model          string
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. A nil guard falls back to the default safety policy.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, guard *safety.Guard) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("dose").Parse(dosePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	if guard == nil {
		guard = safety.NewDefaultGuard()
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		guard:          guard,
		model:          cfg.ModelName,
	}, nil
}

// GenerateDose implements generation.Generator.GenerateDose.
func (g *GeminiGenerator) GenerateDose(ctx context.Context, promptText string, userID uuid.UUID) (*domain.GenerationOutput, error) {
	prompt, err := g.createPrompt(ctx, promptText)
	if err != nil {
		return nil, err
	}

	raw, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := genparse.ParseAndValidate(raw)
	if !result.OK() {
		g.logger.WarnContext(ctx, "model output failed validation",
			"issue_count", len(result.Issues),
			"repaired", result.Repaired,
			"user_id", userID)
		return nil, &generation.ValidationError{Issues: result.Issues}
	}

	g.stampSafetyMetadata(result.Data)

	g.logger.InfoContext(ctx, "dose generated",
		"card_count", len(result.Data.Cards),
		"question_count", len(result.Data.Quiz.Questions),
		"repaired", result.Repaired,
		"user_id", userID)

	return result.Data, nil
}

// stampSafetyMetadata resolves each card's declared safety metadata against
// the guard: the risk floor is applied over the card's combined text and
// needsSourcing is recomputed from the sources actually present.
func (g *GeminiGenerator) stampSafetyMetadata(output *domain.GenerationOutput) {
	for i := range output.Cards {
		card := &output.Cards[i]
		inferred := g.guard.InferRiskLevel(card.CombinedText())
		card.RiskLevel = safety.CombineRiskLevels(card.RiskLevel, inferred)
		card.NeedsSourcing = g.guard.ResolveNeedsSourcing(card.Sources, card.NeedsSourcing)
	}
}

// createPrompt renders the prompt template with the editor's topic text.
func (g *GeminiGenerator) createPrompt(ctx context.Context, promptText string) (string, error) {
	if promptText == "" {
		return "", ErrEmptyPromptText
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{PromptText: promptText}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"prompt_length", buf.Len())

	return buf.String(), nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff and
// jitter for transient failures. Permanent failures (safety blocks, empty
// responses) are returned immediately; the raw response text is handed back
// untouched for the parse pipeline to deal with.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"model", g.model)

		text, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if !transient {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call. The second return value reports
// whether the failure is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (string, bool, error) {
	callCtx := ctx
	if g.config.RequestTimeoutSecs > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(g.config.RequestTimeoutSecs)*time.Second)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(callCtx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", false, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", false, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return text, false, nil
}
