package chartgen

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
)

// ============================================================================
// GEMINI GENERATOR — Model-proposed chart specs
// ============================================================================
// The model sees the question, the result column names, and up to a few
// result rows; it proposes a Spec which is validated before being
// returned. Without a configured key the generator reports failure — there
// is no local equivalent for arbitrary styling, only FallbackSpec.
// ============================================================================

const (
	defaultModel    = "gemini-2.0-flash"
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTimeout  = 20 * time.Second

	promptRowSample = 5
)

// Config holds the model backend configuration for chart generation.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Gemini generates chart specs via the Gemini API.
type Gemini struct {
	config Config
	client *http.Client
}

// NewGemini creates a model-backed chart generator.
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

// Generate implements Generator. Failures are reported, never panicked:
// retryable by asking again, recoverable via FallbackSpec.
func (g *Gemini) Generate(ctx context.Context, req Request) Result {
	if g.config.APIKey == "" {
		return Result{Success: false, Error: "chart generation unavailable: no API key configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	response, err := g.call(ctx, buildChartPrompt(req))
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("chart generation failed: %v", err)}
	}

	spec, err := parseSpec(response)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if err := Validate(spec, req.Intent); err != nil {
		return Result{Success: false, Error: fmt.Sprintf("rejected model chart spec: %v", err)}
	}

	log.Printf("✅ tabql chartgen: model spec type=%s x=%q y=%q", spec.Type, spec.XField, spec.YField)
	return Result{Success: true, Spec: spec}
}

// ============================================================================
// PROMPT + PARSING
// ============================================================================

func buildChartPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You are a chart configuration assistant for a tabular data analysis tool.

Pick the best chart for the aggregated result below. Respond with ONLY
valid JSON in this shape (no markdown):
{
  "type": "bar|line|pie",
  "xField": "result column for the x axis / slice labels",
  "yField": "result column for the values",
  "title": "short chart title",
  "showLegend": true
}

Guidance: time-series or trend data → "line"; share-of-whole or
percentage breakdowns → "pie"; comparisons (default) → "bar".

`)

	b.WriteString("RESULT COLUMNS: " + strings.Join(engine.ResultColumns(req.Intent), ", ") + "\n")
	b.WriteString(fmt.Sprintf("CHART HINT: %s\n", req.Intent.Chart))

	sample := req.Result
	if len(sample) > promptRowSample {
		sample = sample[:promptRowSample]
	}
	if rows, err := json.Marshal(sample); err == nil {
		b.WriteString("SAMPLE ROWS: " + string(rows) + "\n")
	}

	b.WriteString("\nUSER QUERY: " + req.Query + "\n\nRespond with valid JSON only:")
	return b.String()
}

func parseSpec(response string) (*Spec, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var spec Spec
	if err := json.Unmarshal([]byte(cleaned), &spec); err != nil {
		return nil, fmt.Errorf("malformed chart spec response: %v (response: %.200s)", err, cleaned)
	}
	return &spec, nil
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
