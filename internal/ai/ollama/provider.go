package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/minutes/internal/ai/provider"
	"github.com/kiranshivaraju/minutes/internal/config"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// Extractor implements models.Extractor against a local Ollama server.
type Extractor struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewExtractor(cfg config.OllamaConfig) *Extractor {
	return &Extractor{cfg: cfg, client: &http.Client{}}
}

func (e *Extractor) Name() string { return "ollama" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string             `json:"model"`
	Messages []chatMessage      `json:"messages"`
	Stream   bool               `json:"stream"`
	Format   string             `json:"format"`
	Options  map[string]float64 `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (e *Extractor) Extract(ctx context.Context, transcript string) (models.Minutes, error) {
	payload, err := json.Marshal(chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: provider.SystemPrompt},
			{Role: "user", Content: provider.ExtractionPrompt(transcript)},
		},
		Format:  "json",
		Options: map[string]float64{"temperature": provider.Temperature},
	})
	if err != nil {
		return models.Minutes{}, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(e.cfg.BaseURL, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.Minutes{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return models.Minutes{}, provider.Classify(err)
	}
	defer resp.Body.Close()

	if err := provider.CheckStatus(resp); err != nil {
		return models.Minutes{}, err
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return models.Minutes{}, fmt.Errorf("%w: decoding chat response: %v", provider.ErrInvalidResponse, err)
	}
	return provider.ParseMinutes(cr.Message.Content)
}

var _ models.Extractor = (*Extractor)(nil)
