package anthropic

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

const (
	apiVersion = "2023-06-01"
	maxTokens  = 4096
)

// Extractor implements models.Extractor using the Anthropic Messages API.
type Extractor struct {
	cfg    config.AnthropicConfig
	client *http.Client
}

func NewExtractor(cfg config.AnthropicConfig) *Extractor {
	return &Extractor{cfg: cfg, client: &http.Client{}}
}

func (e *Extractor) Name() string { return "anthropic" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (e *Extractor) Extract(ctx context.Context, transcript string) (models.Minutes, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:       e.cfg.Model,
		MaxTokens:   maxTokens,
		System:      provider.SystemPrompt,
		Messages:    []message{{Role: "user", Content: provider.ExtractionPrompt(transcript)}},
		Temperature: provider.Temperature,
	})
	if err != nil {
		return models.Minutes{}, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(e.cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.Minutes{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("x-api-key", e.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return models.Minutes{}, provider.Classify(err)
	}
	defer resp.Body.Close()

	if err := provider.CheckStatus(resp); err != nil {
		return models.Minutes{}, err
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return models.Minutes{}, fmt.Errorf("%w: decoding message: %v", provider.ErrInvalidResponse, err)
	}

	var text strings.Builder
	for _, block := range mr.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return provider.ParseMinutes(text.String())
}

var _ models.Extractor = (*Extractor)(nil)
