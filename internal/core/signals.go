package core

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// SignalExtractor evaluates the fixed set of phishing heuristics against
// message text. The pattern and keyword lists are configuration data, not
// learned, so the heuristic layer stays deterministic and auditable
// independently of the statistical classifier.
type SignalExtractor struct {
	urlPattern      *regexp.Regexp
	emailPattern    *regexp.Regexp
	urgencyWords    []string
	impersonation   []string
	credentialWords []string
	logger          *zap.Logger
}

// SignalVocabulary holds the pattern and keyword lists for the text domain.
type SignalVocabulary struct {
	URLPattern            string
	EmailPattern          string
	UrgencyKeywords       []string
	ImpersonationKeywords []string
	CredentialKeywords    []string
}

// DefaultSignalVocabulary returns the built-in heuristic lists.
func DefaultSignalVocabulary() SignalVocabulary {
	return SignalVocabulary{
		URLPattern:   `https?://\S+`,
		EmailPattern: `[\w.-]+@[\w.-]+\.\w+`,
		UrgencyKeywords: []string{
			"urgent", "immediately", "act now", "verify now",
		},
		ImpersonationKeywords: []string{
			"bank", "paypal", "government", "admin", "amazon",
		},
		CredentialKeywords: []string{
			"otp", "password", "login", "verify account",
		},
	}
}

// NewSignalExtractor compiles the vocabulary into an extractor.
func NewSignalExtractor(vocab SignalVocabulary, logger *zap.Logger) (*SignalExtractor, error) {
	urlPattern, err := regexp.Compile(vocab.URLPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid url pattern: %w", err)
	}
	emailPattern, err := regexp.Compile(vocab.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern: %w", err)
	}

	return &SignalExtractor{
		urlPattern:      urlPattern,
		emailPattern:    emailPattern,
		urgencyWords:    lowerAll(vocab.UrgencyKeywords),
		impersonation:   lowerAll(vocab.ImpersonationKeywords),
		credentialWords: lowerAll(vocab.CredentialKeywords),
		logger:          logger,
	}, nil
}

// Extract evaluates every text-domain signal against the message and returns
// the resulting SignalSet. Matching is case-insensitive.
func (e *SignalExtractor) Extract(message string) SignalSet {
	text := strings.ToLower(message)

	signals := SignalSet{
		SignalSuspiciousLink:      e.urlPattern.MatchString(text),
		SignalEmailAddressPresent: e.emailPattern.MatchString(text),
		SignalUrgentLanguage:      containsAny(text, e.urgencyWords),
		SignalImpersonation:       containsAny(text, e.impersonation),
		SignalCredentialRequest:   containsAny(text, e.credentialWords),
	}

	if e.logger != nil {
		e.logger.Debug("Extracted phishing signals",
			zap.Int("active", signals.Count()),
			zap.Strings("signals", signals.Active()))
	}
	return signals
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}
