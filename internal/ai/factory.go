package ai

import (
	"fmt"

	"github.com/kiranshivaraju/minutes/internal/ai/anthropic"
	"github.com/kiranshivaraju/minutes/internal/ai/fixture"
	"github.com/kiranshivaraju/minutes/internal/ai/ollama"
	"github.com/kiranshivaraju/minutes/internal/ai/openai"
	"github.com/kiranshivaraju/minutes/internal/config"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// NewTranscriber constructs the transcription adapter based on config.
// Called once at server startup.
func NewTranscriber(cfg config.AIConfig) (models.Transcriber, error) {
	if cfg.Fixture() {
		return fixture.Transcriber{}, nil
	}
	return openai.NewTranscriber(cfg.OpenAI), nil
}

// NewExtractor constructs the extraction adapter based on config.
// Called once at server startup.
func NewExtractor(cfg config.AIConfig) (models.Extractor, error) {
	if cfg.Fixture() {
		return fixture.Extractor{}, nil
	}

	switch cfg.ExtractionProvider {
	case "openai":
		return openai.NewExtractor(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewExtractor(cfg.Anthropic), nil
	case "ollama":
		return ollama.NewExtractor(cfg.Ollama), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q: must be one of openai, anthropic, ollama", cfg.ExtractionProvider)
	}
}
