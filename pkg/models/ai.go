// Package models contains shared data models used across the minutes service.
package models

import "context"

// Transcriber converts a stored audio artifact into plain text.
// Callers depend on this interface, never on a concrete backend.
type Transcriber interface {
	// Transcribe reads the artifact behind audioRef and returns its transcript.
	Transcribe(ctx context.Context, audioRef string) (string, error)
	// Name returns the backend identifier (e.g., "openai", "fixture").
	Name() string
}

// Extractor turns a transcript into structured minutes.
type Extractor interface {
	// Extract returns the summary, decisions and action items found in transcript.
	Extract(ctx context.Context, transcript string) (Minutes, error)
	// Name returns the backend identifier (e.g., "anthropic", "fixture").
	Name() string
}
