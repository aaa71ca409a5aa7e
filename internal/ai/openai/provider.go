// Package openai talks to any OpenAI-compatible API. Groq is the default
// endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kiranshivaraju/minutes/internal/ai/provider"
	"github.com/kiranshivaraju/minutes/internal/config"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// Transcriber implements models.Transcriber via /audio/transcriptions.
type Transcriber struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewTranscriber(cfg config.OpenAIConfig) *Transcriber {
	return &Transcriber{cfg: cfg, client: &http.Client{}}
}

func (t *Transcriber) Name() string { return "openai" }

// Transcribe uploads the audio file at audioRef and returns the plain-text
// transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	f, err := os.Open(audioRef)
	if err != nil {
		return "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", t.cfg.TranscribeModel); err != nil {
		return "", err
	}
	if err := mw.WriteField("response_format", "text"); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioRef))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(t.cfg.BaseURL, "/audio/transcriptions"), &body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", provider.Classify(err)
	}
	defer resp.Body.Close()

	if err := provider.CheckStatus(resp); err != nil {
		return "", err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.Classify(err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", provider.ErrInvalidResponse)
	}
	return text, nil
}

// Extractor implements models.Extractor via /chat/completions in JSON mode.
type Extractor struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewExtractor(cfg config.OpenAIConfig) *Extractor {
	return &Extractor{cfg: cfg, client: &http.Client{}}
}

func (e *Extractor) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *Extractor) Extract(ctx context.Context, transcript string) (models.Minutes, error) {
	payload, err := json.Marshal(chatRequest{
		Model: e.cfg.ExtractionModel,
		Messages: []chatMessage{
			{Role: "system", Content: provider.SystemPrompt},
			{Role: "user", Content: provider.ExtractionPrompt(transcript)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    provider.Temperature,
	})
	if err != nil {
		return models.Minutes{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(e.cfg.BaseURL, "/chat/completions"), bytes.NewReader(payload))
	if err != nil {
		return models.Minutes{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
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
		return models.Minutes{}, fmt.Errorf("%w: decoding completion: %v", provider.ErrInvalidResponse, err)
	}
	if len(cr.Choices) == 0 {
		return models.Minutes{}, fmt.Errorf("%w: no choices", provider.ErrInvalidResponse)
	}
	return provider.ParseMinutes(cr.Choices[0].Message.Content)
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

var (
	_ models.Transcriber = (*Transcriber)(nil)
	_ models.Extractor   = (*Extractor)(nil)
)
