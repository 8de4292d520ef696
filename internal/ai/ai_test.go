package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gnemet/pptxtext/internal/config"
)

func clientFor(active string, providers map[string]config.ProviderSettings) *Client {
	return NewClient(&config.Config{AI: config.AIConfig{ActiveProvider: active, Providers: providers}})
}

func TestSummarizeDisabled(t *testing.T) {
	for _, active := range []string{"", "none"} {
		c := clientFor(active, nil)
		if c.Enabled() {
			t.Errorf("%q: expected disabled client", active)
		}
		if _, err := c.SummarizeText(context.Background(), "text"); !errors.Is(err, ErrDisabled) {
			t.Errorf("%q: expected ErrDisabled, got %v", active, err)
		}
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Error("nil client should be disabled")
	}
}

func TestSummarizeMock(t *testing.T) {
	c := clientFor("dev_mock", map[string]config.ProviderSettings{"dev_mock": {Driver: "mock"}})

	got, err := c.SummarizeText(context.Background(), "Quarterly Review\nRevenue grew")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Summary: Quarterly Review" {
		t.Errorf("SummarizeText() = %q", got)
	}

	long := strings.Repeat("é", 100)
	got, _ = c.SummarizeText(context.Background(), long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != len("Summary: ")+80+3 {
		t.Errorf("Long summary not shortened: %q", got)
	}
}

func TestSummarizeUnknownDriver(t *testing.T) {
	c := clientFor("other", nil)
	if _, err := c.SummarizeText(context.Background(), "x"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	c := clientFor("gemini", map[string]config.ProviderSettings{"gemini": {Model: "gemini-2.5-flash"}})
	_, err := c.SummarizeText(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "missing api key") {
		t.Errorf("Expected missing key error, got %v", err)
	}
}
