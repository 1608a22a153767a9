// Package nlp extracts structured meeting requests with Gemini.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const (
	msgDecodeFailed = "Failed to parse LLM response into JSON."
	msgCallFailed   = "An unexpected error occurred during NLP parsing."
	jsonMIMEType    = "application/json"
)

// generator is the slice of the genai Models API the oracle uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOracle turns free text into a ParsedRequest.
type GeminiOracle struct {
	models generator
	model  string
	logger *slog.Logger
	now    func() time.Time
}

// NewGeminiOracle creates an oracle backed by the Gemini API.
func NewGeminiOracle(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newOracle(client.Models, model, logger), nil
}

func newOracle(models generator, model string, logger *slog.Logger) *GeminiOracle {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiOracle{models: models, model: model, logger: logger, now: time.Now}
}

// Parse never returns an error: failures come back as a request with Error
// set and an unknown intent.
func (o *GeminiOracle) Parse(ctx context.Context, text string) domain.ParsedRequest {
	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(buildPrompt(text, o.now())), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
	})
	if err != nil {
		o.logger.WarnContext(ctx, "gemini call failed", "model", o.model, "error", err)
		return domain.FailedRequest(msgCallFailed, err)
	}

	raw := cleanJSON(responseText(resp))
	parsed, err := decode(raw)
	if err != nil {
		o.logger.WarnContext(ctx, "gemini response is not valid JSON", "error", err, "raw", raw)
		return domain.FailedRequest(msgDecodeFailed, err)
	}

	o.logger.DebugContext(ctx, "meeting request parsed",
		"intent", parsed.Intent,
		"participants", len(parsed.Participants),
	)
	return parsed
}

// wireRequest tolerates durations sent as floats or numeric strings.
type wireRequest struct {
	domain.ParsedRequest
	DurationMinutes *json.Number `json:"duration_minutes"`
}

func decode(raw string) (domain.ParsedRequest, error) {
	var wire wireRequest
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return domain.ParsedRequest{}, err
	}

	parsed := wire.ParsedRequest
	if parsed.Intent == "" {
		parsed.Intent = domain.IntentUnknown
	}
	if wire.DurationMinutes != nil {
		f, err := wire.DurationMinutes.Float64()
		if err != nil {
			return domain.ParsedRequest{}, fmt.Errorf("duration_minutes: %w", err)
		}
		minutes := int(math.Round(f))
		parsed.DurationMinutes = &minutes
	}
	return parsed, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// cleanJSON strips markdown code fences around a JSON payload.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
