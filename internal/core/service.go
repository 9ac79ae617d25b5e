package core

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Engine identifiers reported in scan metadata.
const (
	PhishEngine   = "Suraksha-Phish-ML v1.0"
	VaultEngine   = "Suraksha-Vault-Entropy v1.0"
	MalwareEngine = "Suraksha-Malware-Scan v1.1"
)

// ErrEmptyMessage is returned when a text analysis is requested without a
// message body.
var ErrEmptyMessage = errors.New("message is required")

// ErrNoFile is returned when a file analysis is requested without content.
var ErrNoFile = errors.New("no file received")

// AnalysisService fuses the independent risk signals into verdicts. It is
// stateless per request; the only shared state in the pipeline lives behind
// the Explainer's cooldown gate and the optional result cache.
type AnalysisService struct {
	extractor     *SignalExtractor
	scanner       *FileScanner
	classifier    TextClassifier
	explainer     Explainer
	cache         ResultCache
	policy        FusionPolicy
	logger        *zap.Logger
	cacheEnabled  bool
	cacheTTL      time.Duration
	entropyWindow int
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	extractor *SignalExtractor,
	scanner *FileScanner,
	classifier TextClassifier,
	explainer Explainer,
	cache ResultCache,
	policy FusionPolicy,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	entropyWindow int,
) *AnalysisService {
	return &AnalysisService{
		extractor:     extractor,
		scanner:       scanner,
		classifier:    classifier,
		explainer:     explainer,
		cache:         cache,
		policy:        policy,
		logger:        logger,
		cacheEnabled:  cacheEnabled,
		cacheTTL:      cacheTTL,
		entropyWindow: entropyWindow,
	}
}

// AnalyzeMessage scores a free-text message for phishing risk. A classifier
// failure fails the whole request: without its label no verdict can be
// trusted.
func (s *AnalysisService) AnalyzeMessage(ctx context.Context, msg Message) (*TextAnalysis, error) {
	body := strings.TrimSpace(msg.Body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	key := cacheKey("text", "", []byte(body))
	if cached, ok := s.cachedResult(ctx, key); ok {
		var result TextAnalysis
		if err := json.Unmarshal(cached, &result); err == nil {
			s.logger.Debug("Returning cached text analysis", zap.String("key", key))
			return &result, nil
		}
	}

	signals := s.extractor.Extract(body)

	label, err := s.classifier.Classify(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("classifier unavailable: %w", err)
	}

	score := s.policy.FuseText(signals, label)
	verdict, confidence := s.policy.MapTextVerdict(score)

	result := &TextAnalysis{
		Verdict:           verdict,
		Confidence:        confidence,
		Score:             score,
		Signals:           signals,
		ActiveSignals:     signals.Active(),
		ClassifierLabel:   label,
		RecommendedAction: recommendedAction(verdict),
		Metadata:          newScanMetadata("PHISH", PhishEngine),
	}

	result.Explanation = s.explainer.Explain(ctx, phishingPrompt(body, result), msg.Language)

	s.logger.Info("Analyzed message",
		zap.String("scan_id", result.Metadata.ScanID),
		zap.String("verdict", string(verdict)),
		zap.Int("score", score),
		zap.Int("confidence", confidence),
		zap.String("classifier_label", string(label)))

	s.storeResult(ctx, key, "text", result)
	return result, nil
}

// AnalyzeVaultFile scores a file by byte entropy alone, using the
// entropy-only threshold table.
func (s *AnalysisService) AnalyzeVaultFile(ctx context.Context, filename string, data []byte, lang string) (*FileAnalysis, error) {
	if len(data) == 0 && filename == "" {
		return nil, ErrNoFile
	}

	key := cacheKey("vault", filename, data)
	if cached, ok := s.cachedResult(ctx, key); ok {
		var result FileAnalysis
		if err := json.Unmarshal(cached, &result); err == nil {
			s.logger.Debug("Returning cached vault analysis", zap.String("key", key))
			return &result, nil
		}
	}

	entropy := RoundEntropy(Entropy(s.entropySlice(data)))
	verdict, riskScore := s.policy.MapEntropyVerdict(entropy)

	result := &FileAnalysis{
		FileName:  filename,
		Entropy:   entropy,
		RiskScore: riskScore,
		Verdict:   verdict,
		Metadata:  newScanMetadata("VAULT", VaultEngine),
	}
	result.Explanation = s.explainer.Explain(ctx, filePrompt(result), lang)

	s.logger.Info("Analyzed vault file",
		zap.String("scan_id", result.Metadata.ScanID),
		zap.String("file", filename),
		zap.Float64("entropy", entropy),
		zap.String("verdict", string(verdict)))

	s.storeResult(ctx, key, "vault", result)
	return result, nil
}

// ScanFile scores a file with the signature-weighted table. Entropy is
// computed and reported alongside but does not drive this verdict.
func (s *AnalysisService) ScanFile(ctx context.Context, filename string, data []byte, lang string) (*FileAnalysis, error) {
	if len(data) == 0 && filename == "" {
		return nil, ErrNoFile
	}

	key := cacheKey("file", filename, data)
	if cached, ok := s.cachedResult(ctx, key); ok {
		var result FileAnalysis
		if err := json.Unmarshal(cached, &result); err == nil {
			s.logger.Debug("Returning cached file scan", zap.String("key", key))
			return &result, nil
		}
	}

	report := s.scanner.Scan(filename, data)
	score := s.policy.FuseFile(report)
	verdict, riskScore := s.policy.MapFileVerdict(score)

	result := &FileAnalysis{
		FileName:  filename,
		Entropy:   RoundEntropy(Entropy(s.entropySlice(data))),
		RiskScore: riskScore,
		Verdict:   verdict,
		Findings:  report.Findings,
		Signals:   report.Signals(),
		Status:    "Complete",
		Metadata:  newScanMetadata("MAL", MalwareEngine),
	}
	result.Explanation = s.explainer.Explain(ctx, filePrompt(result), lang)

	s.logger.Info("Scanned file",
		zap.String("scan_id", result.Metadata.ScanID),
		zap.String("file", filename),
		zap.Int("signature_matches", report.MatchedSignatures),
		zap.Int("risk_score", riskScore),
		zap.String("verdict", string(verdict)))

	s.storeResult(ctx, key, "file", result)
	return result, nil
}

// entropySlice applies the configured read window, if any.
func (s *AnalysisService) entropySlice(data []byte) []byte {
	if s.entropyWindow > 0 && len(data) > s.entropyWindow {
		return data[:s.entropyWindow]
	}
	return data
}

func (s *AnalysisService) cachedResult(ctx context.Context, key string) ([]byte, bool) {
	if !s.cacheEnabled || s.cache == nil {
		return nil, false
	}
	entry, err := s.cache.Get(ctx, key)
	if err != nil || entry == nil {
		return nil, false
	}
	return entry.Result, true
}

func (s *AnalysisService) storeResult(ctx context.Context, key, domain string, result any) {
	if !s.cacheEnabled || s.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("Failed to marshal result for cache", zap.Error(err))
		return
	}
	entry := &CacheEntry{
		Key:       key,
		Domain:    domain,
		Result:    payload,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.cacheTTL),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update result cache", zap.Error(err))
	}
}

func recommendedAction(verdict Verdict) string {
	if verdict == VerdictDangerous {
		return "Do not click any links or respond. Report and delete this message immediately."
	}
	return "Verify the sender before responding and avoid sharing sensitive information."
}

func cacheKey(domain, name string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func newScanMetadata(prefix, engine string) ScanMetadata {
	return ScanMetadata{
		ScanID:       prefix + "-" + randomHex(4),
		Engine:       engine,
		TimestampUTC: time.Now().UTC(),
	}
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		return strings.Repeat("0", n*2)
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

// phishingPrompt builds the explanation prompt for a message verdict.
func phishingPrompt(message string, result *TextAnalysis) string {
	indicators := strings.Join(result.ActiveSignals, ", ")
	if indicators == "" {
		indicators = "statistical classification only"
	}
	return fmt.Sprintf(`You are a cybersecurity expert.

Analyze the following message for phishing:

Message:
"""%s"""

Detected indicators:
%s

Final Verdict: %s
Confidence: %d%%

Explain in 2-3 simple lines why this message is considered phishing or safe.
Do NOT mention files, entropy, malware, AI, or ML.`, message, indicators, result.Verdict, result.Confidence)
}

// filePrompt builds the explanation prompt for a file verdict.
func filePrompt(result *FileAnalysis) string {
	return fmt.Sprintf(`You are a cybersecurity expert.

A file analysis returned:
Entropy: %.2f
Risk Score: %d
Verdict: %s

Explain what this means in simple terms (2-3 lines).
Do not mention AI or ML.`, result.Entropy, result.RiskScore, result.Verdict)
}
