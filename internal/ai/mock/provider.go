package mock

import (
	"context"

	"github.com/kiranshivaraju/minutes/internal/ai"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// MockTranscriber satisfies models.Transcriber for testing.
type MockTranscriber struct {
	Name_          string
	TranscribeFunc func(ctx context.Context, audioRef string) (string, error)
}

func (m *MockTranscriber) Name() string { return m.Name_ }

func (m *MockTranscriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioRef)
	}
	return "", nil
}

// MockExtractor satisfies models.Extractor for testing.
type MockExtractor struct {
	Name_       string
	ExtractFunc func(ctx context.Context, transcript string) (models.Minutes, error)
}

func (m *MockExtractor) Name() string { return m.Name_ }

func (m *MockExtractor) Extract(ctx context.Context, transcript string) (models.Minutes, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, transcript)
	}
	return models.Minutes{}, nil
}

// NewMockTranscriber returns a MockTranscriber that always yields text.
func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{
		Name_: "mock",
		TranscribeFunc: func(_ context.Context, _ string) (string, error) {
			return text, nil
		},
	}
}

// NewMockExtractor returns a MockExtractor with one decision and one
// unowned action item.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		Name_: "mock",
		ExtractFunc: func(_ context.Context, _ string) (models.Minutes, error) {
			deadline := "Friday"
			return models.Minutes{
				Summary:   "Mock summary for testing",
				Decisions: []models.Decision{{Description: "Adopt the mock", Confidence: 0.9, SourceText: "we adopt the mock"}},
				ActionItems: []models.ActionItem{
					{Description: "Write the tests", Deadline: &deadline, Confidence: 0.8, SourceText: "tests by Friday"},
				},
			}, nil
		},
	}
}

// NewFailingTranscriber returns a MockTranscriber that always returns err.
func NewFailingTranscriber(err error) *MockTranscriber {
	return &MockTranscriber{
		Name_: "mock-failing",
		TranscribeFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewFailingExtractor returns a MockExtractor that always returns err.
func NewFailingExtractor(err error) *MockExtractor {
	return &MockExtractor{
		Name_: "mock-failing",
		ExtractFunc: func(_ context.Context, _ string) (models.Minutes, error) {
			return models.Minutes{}, err
		},
	}
}

// NewTimeoutTranscriber returns a MockTranscriber that blocks until ctx is done.
func NewTimeoutTranscriber() *MockTranscriber {
	return &MockTranscriber{
		Name_: "mock-timeout",
		TranscribeFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
	}
}

// NewTimeoutExtractor returns a MockExtractor that blocks until ctx is done.
func NewTimeoutExtractor() *MockExtractor {
	return &MockExtractor{
		Name_: "mock-timeout",
		ExtractFunc: func(ctx context.Context, _ string) (models.Minutes, error) {
			<-ctx.Done()
			return models.Minutes{}, ai.ErrInferenceTimeout
		},
	}
}

var (
	_ models.Transcriber = (*MockTranscriber)(nil)
	_ models.Extractor   = (*MockExtractor)(nil)
)
