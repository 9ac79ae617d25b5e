// Package explain rate-limits the external explanation service and supplies
// localized fallback text when a live call is not permitted or fails. The
// gate is cosmetic to the verdict: nothing here ever influences scoring.
package explain

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/utils"
)

// fallback catalog, closed set. The first entry is the base language used
// for unrecognized codes.
var fallbackTags = []language.Tag{
	language.English,
	language.Hindi,
	language.Spanish,
	language.French,
	language.German,
}

var fallbackTexts = []string{
	"Automated explanation is unavailable right now. Treat the verdict above as the final assessment.",
	"स्वचालित व्याख्या अभी उपलब्ध नहीं है। ऊपर दिए गए निर्णय को ही अंतिम आकलन मानें।",
	"La explicación automática no está disponible en este momento. Considere el veredicto anterior como la evaluación final.",
	"L'explication automatique n'est pas disponible pour le moment. Considérez le verdict ci-dessus comme l'évaluation finale.",
	"Die automatische Erklärung ist derzeit nicht verfügbar. Betrachten Sie das obige Urteil als endgültige Bewertung.",
}

var fallbackMatcher = language.NewMatcher(fallbackTags)

// Gatekeeper guards every call to the external explanation service with a
// process-wide cooldown. At most one caller per cooldown window is granted a
// live call; everyone else gets the fallback immediately, never a wait.
type Gatekeeper struct {
	client        core.ExplanationClient
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	cooldown      time.Duration
	timeout       time.Duration
	maxPromptSize int

	mu       sync.Mutex
	lastCall time.Time
}

// NewGatekeeper creates a gatekeeper around an explanation client. A nil
// client disables live explanations entirely.
func NewGatekeeper(client core.ExplanationClient, logger *zap.Logger, cooldown, timeout time.Duration, maxPromptSize int) *Gatekeeper {
	return &Gatekeeper{
		client:        client,
		logger:        logger,
		textProcessor: utils.NewTextProcessor(logger),
		cooldown:      cooldown,
		timeout:       timeout,
		maxPromptSize: maxPromptSize,
	}
}

// Allow reports whether a live explanation call is permitted right now. The
// read-compare-write on the last-call timestamp is one indivisible operation,
// so concurrent callers inside the same cooldown window cannot both win.
func (g *Gatekeeper) Allow() bool {
	if g.client == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.lastCall.IsZero() && now.Sub(g.lastCall) <= g.cooldown {
		return false
	}
	g.lastCall = now
	return true
}

// Explain returns narrative text for the prompt. It degrades to the
// localized fallback on cooldown denial, timeout, provider error, or an
// empty response; it never returns a raw error and is never retried.
func (g *Gatekeeper) Explain(ctx context.Context, prompt string, lang string) string {
	if !g.Allow() {
		g.logger.Debug("Explanation call denied by cooldown gate")
		return Fallback(lang)
	}

	// Prompts embed untrusted message content, so bound and sanitize before
	// the call leaves the process.
	prompt = g.textProcessor.ProcessText(prompt, g.maxPromptSize)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.Generate(callCtx, prompt)
	if err != nil {
		g.logger.Warn("Explanation service failed", zap.Error(err))
		return Fallback(lang)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback(lang)
	}
	return text
}

// Fallback returns the fallback string for a BCP-47 language code, defaulting
// to the base language when the code is empty or unrecognized.
func Fallback(lang string) string {
	if lang == "" {
		return fallbackTexts[0]
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fallbackTexts[0]
	}
	_, idx, _ := fallbackMatcher.Match(tag)
	return fallbackTexts[idx]
}
