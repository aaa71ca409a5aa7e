package provider_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kiranshivaraju/minutes/internal/ai/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes_Valid(t *testing.T) {
	raw := `{"summary":"Sync.","decisions":[{"description":"Use Go","confidence":0.9,"source_text":"we use Go"}],
		"action_items":[{"description":"Write docs","owner":null,"deadline":"Friday","confidence":0.7,"source_text":"docs by Friday"}]}`

	m, err := provider.ParseMinutes(raw)
	require.NoError(t, err)
	assert.Equal(t, "Sync.", m.Summary)
	require.Len(t, m.Decisions, 1)
	assert.Equal(t, 0.9, m.Decisions[0].Confidence)
	require.Len(t, m.ActionItems, 1)
	assert.Nil(t, m.ActionItems[0].Owner)
	require.NotNil(t, m.ActionItems[0].Deadline)
	assert.Equal(t, "Friday", *m.ActionItems[0].Deadline)
}

func TestParseMinutes_MissingListsBecomeEmpty(t *testing.T) {
	m, err := provider.ParseMinutes(`{"summary":"Nothing decided."}`)
	require.NoError(t, err)
	assert.NotNil(t, m.Decisions)
	assert.NotNil(t, m.ActionItems)
	assert.Empty(t, m.Decisions)
	assert.Empty(t, m.ActionItems)
}

func TestParseMinutes_StripsCodeFence(t *testing.T) {
	m, err := provider.ParseMinutes("```json\n{\"summary\":\"fenced\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "fenced", m.Summary)
}

func TestParseMinutes_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `{"summary": 3}`} {
		_, err := provider.ParseMinutes(raw)
		assert.ErrorIs(t, err, provider.ErrInvalidResponse, "input %q", raw)
	}
}

func TestExtractionPrompt_EmbedsTranscript(t *testing.T) {
	p := provider.ExtractionPrompt("Alice will ship it.")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "Alice will ship it."))
	assert.Contains(t, p, "(0.8-1.0)")
	assert.Contains(t, p, "(0.5-0.7)")
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, provider.Classify(context.DeadlineExceeded), provider.ErrInferenceTimeout)
	assert.ErrorIs(t, provider.Classify(errors.New("connection refused")), provider.ErrProviderUnavailable)
}

func TestCheckStatus(t *testing.T) {
	resp := func(code int, body string) *http.Response {
		return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body))}
	}

	assert.NoError(t, provider.CheckStatus(resp(200, "")))
	assert.ErrorIs(t, provider.CheckStatus(resp(503, "down")), provider.ErrProviderUnavailable)
	assert.ErrorIs(t, provider.CheckStatus(resp(429, "slow down")), provider.ErrProviderUnavailable)

	err := provider.CheckStatus(resp(401, "bad key"))
	assert.ErrorIs(t, err, provider.ErrRequestRejected)
	assert.Contains(t, err.Error(), "status 401: bad key")
}
