package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gnemet/pptxtext/internal/ai"
	"github.com/gnemet/pptxtext/internal/config"
	"github.com/gnemet/pptxtext/internal/extractor"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./scripts/summarize_deck <pptx_path>")
	}

	// 1. Load regular config (including .env)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	settings, ok := cfg.AI.Active()
	if !ok {
		log.Fatal("No AI provider active. Set AI_PROVIDER (e.g. gemini) and its key.")
	}
	fmt.Printf("Active Provider: %s (Driver: %s, Model: %s)\n", cfg.AI.ActiveProvider, settings.Driver, settings.Model)

	// 2. Extract
	text, err := extractor.Extract(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Extracted %d characters\n", len(text))

	// 3. Summarize
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := ai.NewClient(cfg).SummarizeText(ctx, text)
	if err != nil {
		log.Fatalf("AI Error: %v", err)
	}
	fmt.Printf("AI Summary: %s\n", summary)
}
