package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// GEMINI RESOLVER — Tier 1 model-backed intent resolution
// ============================================================================
// Calls the Gemini generateContent API with a schema-driven prompt and
// parses the fixed-shape JSON intent out of the reply. Every failure mode
// (no key, timeout, non-2xx, malformed payload, unknown column) is an
// error — the Chain falls through to the deterministic tier.
// ============================================================================

const (
	defaultModel    = "gemini-2.0-flash"
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTimeout  = 10 * time.Second
)

// Gemini resolves intents via the Gemini API.
type Gemini struct {
	config Config
	client *http.Client
}

// NewGemini creates a model-backed resolver.
func NewGemini(cfg Config) *Gemini {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Resolve implements Resolver.
func (g *Gemini) Resolve(ctx context.Context, query string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error) {
	if !g.config.Available() {
		return nil, fmt.Errorf("model backend unavailable: no API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	prompt := BuildPrompt(cols, query)
	response, err := g.call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	intent, err := parseIntent(response, cols)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ tabql resolver: model intent agg=%s group=%q field=%q chart=%s",
		intent.Aggregation, intent.GroupByField, intent.AggregateField, intent.Chart)
	return intent, nil
}

// ============================================================================
// RESPONSE PARSING
// ============================================================================

// parseIntent extracts and validates a QueryIntent from the model reply.
func parseIntent(response string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error) {
	cleaned := stripFences(response)

	var intent engine.QueryIntent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		return nil, fmt.Errorf("malformed resolver response: %w (response: %.200s)", err, cleaned)
	}

	// Defaults for omitted fields.
	if intent.Aggregation == "" {
		if intent.AggregateField != "" {
			intent.Aggregation = engine.AggSum
		} else {
			intent.Aggregation = engine.AggCount
		}
	}
	if intent.Chart == "" {
		intent.Chart = engine.ChartBar
	}

	// Enum and column validation — an intent the engine cannot execute is
	// a parse failure, not a best-effort guess.
	if !intent.Aggregation.Valid() {
		return nil, fmt.Errorf("malformed resolver response: unknown aggregation %q", intent.Aggregation)
	}
	if !intent.Chart.Valid() {
		return nil, fmt.Errorf("malformed resolver response: unknown chart type %q", intent.Chart)
	}
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.Name] = true
	}
	if intent.GroupByField != "" && !known[intent.GroupByField] {
		return nil, fmt.Errorf("malformed resolver response: unknown group column %q", intent.GroupByField)
	}
	if intent.AggregateField != "" && !known[intent.AggregateField] {
		return nil, fmt.Errorf("malformed resolver response: unknown aggregate column %q", intent.AggregateField)
	}
	if intent.Aggregation != engine.AggCount && intent.AggregateField == "" {
		return nil, fmt.Errorf("malformed resolver response: %s without an aggregate column", intent.Aggregation)
	}

	return &intent, nil
}

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ============================================================================
// GEMINI API CALL
// ============================================================================

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// call sends a prompt to the Gemini API and returns the text reply.
func (g *Gemini) call(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned %d: %.200s", resp.StatusCode, string(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty response")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
