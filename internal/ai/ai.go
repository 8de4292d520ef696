package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnemet/pptxtext/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrDisabled is returned when no provider is active.
var ErrDisabled = errors.New("ai provider disabled")

const summarizePrompt = "Summarize the following presentation text in at most three sentences. Reply with the summary only.\n\n"

type Client struct {
	settings config.ProviderSettings
	enabled  bool
}

func NewClient(cfg *config.Config) *Client {
	settings, ok := cfg.AI.Active()
	return &Client{settings: settings, enabled: ok}
}

// Enabled reports whether SummarizeText will reach a provider.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// SummarizeText produces a short summary of extracted presentation text.
func (c *Client) SummarizeText(ctx context.Context, text string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	switch c.settings.Driver {
	case "mock":
		return mockSummary(text), nil
	case "gemini":
		return c.generateGemini(ctx, summarizePrompt+text)
	default:
		return "", fmt.Errorf("unsupported ai driver: %s", c.settings.Driver)
	}
}

func (c *Client) generateGemini(ctx context.Context, prompt string) (string, error) {
	if c.settings.Key == "" {
		return "", fmt.Errorf("gemini: missing api key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.settings.Key))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.settings.Model)
	if c.settings.Temperature > 0 {
		model.SetTemperature(float32(c.settings.Temperature))
	}
	if c.settings.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.settings.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(sb.String()), nil
}

// mockSummary is deterministic: the first line of the text, shortened.
func mockSummary(text string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if r := []rune(first); len(r) > 80 {
		first = string(r[:80]) + "..."
	}
	return "Summary: " + first
}
