package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "kitaku/internal/platform/http"
	"kitaku/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client renders advisory text through the Gemini generateContent API.
type Client struct {
	httpClient *platformhttp.Client
	apiKey     string
	model      string
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a new Gemini client
func NewClient(cfg *models.Config) *Client {
	return &Client{
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		}),
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: defaultBaseURL,
		logger:  log.With().Str("component", "gemini_client").Logger(),
	}
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Render asks the model for a natural-language advisory and parses its
// JSON reply into a Narrative. The caller falls back to template text on
// error.
func (c *Client) Render(ctx context.Context, advisory *models.Advisory) (*models.Narrative, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	prompt := BuildPrompt(advisory)
	c.logger.Debug().Str("model", c.model).Msg("Sending prompt to Gemini")

	payload, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Gemini API error")
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data generateResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn().Msg("Gemini returned no candidates")
		return nil, fmt.Errorf("empty completion")
	}

	return ParseNarrative(data.Candidates[0].Content.Parts[0].Text), nil
}

// BuildPrompt creates the rendering prompt from the advisory payload.
func BuildPrompt(advisory *models.Advisory) string {
	var sb strings.Builder
	sb.WriteString("You assist a commuter deciding when to leave campus to catch a train.\n")
	sb.WriteString("Based on the data below, describe the situation in plain language.\n\n")

	sb.WriteString(fmt.Sprintf("Weather pattern: %s\n", advisory.Pattern))
	sb.WriteString(fmt.Sprintf("Risk level: %s\n", advisory.Risk))
	sb.WriteString(fmt.Sprintf("Current rainfall: %.1f mm/h\n", advisory.CurrentRainfall))
	sb.WriteString(fmt.Sprintf("Peak rainfall within the hour: %.1f mm/h\n", advisory.PeakRainfall))
	if advisory.SparseData {
		sb.WriteString("Note: forecast data is sparse, confidence is reduced.\n")
	}

	sb.WriteString("\nDeparture options, best first:\n")
	for _, opt := range advisory.Options {
		sb.WriteString(fmt.Sprintf("%d. leave %s, train %s (%s to %s), confidence %.0f%%\n",
			opt.Rank, opt.LeaveTime, opt.TrainDeparture, opt.TrainType, opt.Destination, opt.Confidence*100))
	}

	sb.WriteString(`
Reply with strict JSON only:
{
  "summary": "one short sentence on the situation",
  "reason": "why the first option is recommended",
  "warning": "weather caution, empty string if none",
  "advice": "extra tip, empty string if none"
}
`)
	return sb.String()
}

// ParseNarrative extracts the narrative from a model reply. Replies may
// wrap the JSON in code fences; parse failures degrade to using the raw
// text as the summary instead of failing the advisory.
func ParseNarrative(text string) *models.Narrative {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var n models.Narrative
	if err := json.Unmarshal([]byte(cleaned), &n); err != nil {
		summary := cleaned
		if len(summary) > 120 {
			summary = summary[:120]
		}
		return &models.Narrative{
			Summary: summary,
			Reason:  "Recommendation derived from the forecast and timetable.",
		}
	}
	return &n
}
