// Package provider holds the plumbing shared by the live AI adapters: error
// sentinels, the extraction prompt and response decoding.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/minutes/pkg/models"
)

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
	ErrRequestRejected     = errors.New("ai provider rejected request")
)

// Temperature is used for every extraction call.
const Temperature = 0.3

const SystemPrompt = "You are a precise meeting analyst. Extract action items and decisions from transcripts. Always respond with valid JSON only, no markdown."

const extractionTemplate = `You are an expert meeting analyst. Analyze the following meeting transcript and extract:

1. A brief summary (2-3 sentences)
2. Key decisions made during the meeting
3. Action items with:
   - Clear description of what needs to be done
   - Owner (if mentioned)
   - Deadline (if mentioned)
   - Confidence score (0-1) based on how clearly this was stated
   - Source text from the transcript

Be conservative - only extract items you're confident about. Use lower confidence scores (0.5-0.7) for implied action items, and higher scores (0.8-1.0) for explicitly stated ones.

Respond with a JSON object of the form:
{"summary": string, "decisions": [{"description": string, "confidence": number, "source_text": string}], "action_items": [{"description": string, "owner": string|null, "deadline": string|null, "confidence": number, "source_text": string}]}

TRANSCRIPT:
%s
`

// ExtractionPrompt builds the user message for transcript.
func ExtractionPrompt(transcript string) string {
	return fmt.Sprintf(extractionTemplate, transcript)
}

// ParseMinutes decodes a model's JSON answer. Code fences around the object
// are tolerated and missing lists come back empty.
func ParseMinutes(raw string) (models.Minutes, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if s == "" {
		return models.Minutes{}, fmt.Errorf("%w: empty completion", ErrInvalidResponse)
	}

	var m models.Minutes
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return models.Minutes{}, fmt.Errorf("%w: decoding minutes: %v", ErrInvalidResponse, err)
	}
	m.Normalize()
	return m, nil
}

// Classify maps a transport error from http.Client.Do onto the sentinels.
func Classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

// CheckStatus turns a non-2xx response into an error carrying a snippet of
// the body. 429 and 5xx count as unavailable; other codes as rejected.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	sentinel := ErrRequestRejected
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		sentinel = ErrProviderUnavailable
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, strings.TrimSpace(string(body)))
}
