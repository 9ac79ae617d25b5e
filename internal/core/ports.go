package core

import (
	"context"
)

// TextClassifier wraps the pre-trained statistical text classifier. The
// engine treats it as an opaque function from message to label; if it is
// unavailable the whole text analysis fails, since no fallback verdict
// can be trusted.
type TextClassifier interface {
	// Classify returns one of Safe, Suspicious or Dangerous for a raw message.
	Classify(ctx context.Context, message string) (Label, error)
}

// ExplanationClient is the opaque text-generation service used to narrate
// verdicts. It is slow and unreliable; callers must bound it with a timeout.
type ExplanationClient interface {
	// Generate produces explanation text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Explainer produces user-facing narrative for a finished analysis. It never
// fails: when the live explanation call is denied or errors it returns a
// localized fallback string for the given language code.
type Explainer interface {
	Explain(ctx context.Context, prompt string, lang string) string
}

// ResultCache stores finished analysis results keyed by content digest.
type ResultCache interface {
	// Get retrieves a cached entry by key.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
