// Package fixture provides deterministic adapters that return canned demo
// data. They are used when no AI credentials are configured.
package fixture

import (
	"context"
	"strings"

	"github.com/kiranshivaraju/minutes/pkg/models"
)

const demoTranscript = `
Alright team, let's wrap up this meeting.

John, you'll take care of the user authentication module. Can you have that done by next Friday?

Sure, I can have the auth module ready by Friday the 15th.

Great. Sarah, I need you to review the database schema and propose any optimizations. Let's aim for Wednesday.

Will do. I'll also coordinate with the DevOps team about the staging environment.

Perfect. We've decided to use PostgreSQL instead of MySQL for the new project - it better fits our scaling needs.

One more thing - everyone should update their development environment to Node 20 before our next sprint.

I'll send out the setup instructions by tomorrow.

Thanks everyone. Meeting adjourned.
`

// Transcript returns the demo transcript.
func Transcript() string {
	return strings.TrimSpace(demoTranscript)
}

func str(s string) *string { return &s }

// Minutes returns a fresh copy of the demo minutes.
func Minutes() models.Minutes {
	return models.Minutes{
		Summary: "Team meeting discussing project assignments and technology decisions. Key focus on authentication, database optimization, and development environment updates.",
		Decisions: []models.Decision{
			{
				Description: "Use PostgreSQL instead of MySQL for the new project",
				Confidence:  0.95,
				SourceText:  "We've decided to use PostgreSQL instead of MySQL for the new project",
			},
		},
		ActionItems: []models.ActionItem{
			{
				Description: "Complete user authentication module",
				Owner:       str("John"),
				Deadline:    str("Friday the 15th"),
				Confidence:  0.92,
				SourceText:  "John, you'll take care of the user authentication module. Can you have that done by next Friday?",
			},
			{
				Description: "Review database schema and propose optimizations",
				Owner:       str("Sarah"),
				Deadline:    str("Wednesday"),
				Confidence:  0.90,
				SourceText:  "Sarah, I need you to review the database schema and propose any optimizations",
			},
			{
				Description: "Coordinate with DevOps team about staging environment",
				Owner:       str("Sarah"),
				Confidence:  0.75,
				SourceText:  "I'll also coordinate with the DevOps team about the staging environment",
			},
			{
				Description: "Update development environment to Node 20",
				Owner:       str("Everyone"),
				Deadline:    str("Before next sprint"),
				Confidence:  0.88,
				SourceText:  "everyone should update their development environment to Node 20",
			},
			{
				Description: "Send out setup instructions",
				Deadline:    str("Tomorrow"),
				Confidence:  0.85,
				SourceText:  "I'll send out the setup instructions by tomorrow",
			},
		},
	}
}

// Transcriber ignores the audio and returns the demo transcript.
type Transcriber struct{}

func (Transcriber) Name() string { return "fixture" }

func (Transcriber) Transcribe(_ context.Context, _ string) (string, error) {
	return Transcript(), nil
}

// Extractor ignores the transcript and returns the demo minutes.
type Extractor struct{}

func (Extractor) Name() string { return "fixture" }

func (Extractor) Extract(_ context.Context, _ string) (models.Minutes, error) {
	return Minutes(), nil
}

var (
	_ models.Transcriber = Transcriber{}
	_ models.Extractor   = Extractor{}
)
