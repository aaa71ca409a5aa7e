package ai

import "github.com/kiranshivaraju/minutes/internal/ai/provider"

// Adapter errors. They are defined in provider so the adapter packages can
// return them without importing this package.
var (
	ErrProviderUnavailable = provider.ErrProviderUnavailable
	ErrInferenceTimeout    = provider.ErrInferenceTimeout
	ErrInvalidResponse     = provider.ErrInvalidResponse
	ErrRequestRejected     = provider.ErrRequestRejected
)
