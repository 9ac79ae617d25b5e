package core

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	label Label
	err   error
	calls int
}

func (c *stubClassifier) Classify(_ context.Context, _ string) (Label, error) {
	c.calls++
	return c.label, c.err
}

type stubExplainer struct {
	text  string
	calls int
}

func (e *stubExplainer) Explain(_ context.Context, _ string, _ string) string {
	e.calls++
	return e.text
}

type fakeCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return entry, nil
}

func (c *fakeCache) Set(_ context.Context, entry *CacheEntry) error {
	c.sets++
	c.entries[entry.Key] = entry
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Cleanup(_ context.Context) error { return nil }

func newTestService(t *testing.T, classifier TextClassifier, explainer Explainer, cache ResultCache) *AnalysisService {
	t.Helper()
	extractor, err := NewSignalExtractor(DefaultSignalVocabulary(), zap.NewNop())
	require.NoError(t, err)
	scanner := NewFileScanner(DefaultDenyExtensions(), DefaultSignatures(), zap.NewNop())

	enabled := cache != nil
	return NewAnalysisService(
		extractor,
		scanner,
		classifier,
		explainer,
		cache,
		DefaultFusionPolicy(),
		zap.NewNop(),
		enabled,
		time.Hour,
		0,
	)
}

func TestAnalyzeMessageDangerous(t *testing.T) {
	explainer := &stubExplainer{text: "looks like credential phishing"}
	service := newTestService(t, &stubClassifier{label: LabelDangerous}, explainer, nil)

	result, err := service.AnalyzeMessage(context.Background(),
		Message{Body: "URGENT: verify your paypal password at https://evil.example/login"})
	require.NoError(t, err)

	// 4 heuristic signals plus the Dangerous classifier weight of 3
	assert.Equal(t, 7, result.Score)
	assert.Equal(t, VerdictDangerous, result.Verdict)
	assert.Equal(t, 95, result.Confidence)
	assert.Equal(t, LabelDangerous, result.ClassifierLabel)
	assert.Equal(t, "looks like credential phishing", result.Explanation)
	assert.Equal(t, "Do not click any links or respond. Report and delete this message immediately.", result.RecommendedAction)
	assert.Equal(t, []string{"suspicious link", "urgent language", "impersonation", "credential request"}, result.ActiveSignals)
	assert.Regexp(t, regexp.MustCompile(`^PHISH-[0-9A-F]{8}$`), result.Metadata.ScanID)
	assert.Equal(t, PhishEngine, result.Metadata.Engine)
	assert.False(t, result.Metadata.TimestampUTC.IsZero())
}

func TestAnalyzeMessageSafe(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{text: "nothing alarming"}, nil)

	result, err := service.AnalyzeMessage(context.Background(), Message{Body: "see you at lunch tomorrow"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, VerdictSafe, result.Verdict)
	assert.Equal(t, 85, result.Confidence)
	assert.Empty(t, result.ActiveSignals)
	assert.Equal(t, "Verify the sender before responding and avoid sharing sensitive information.", result.RecommendedAction)
}

func TestAnalyzeMessageEmpty(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{}, nil)

	_, err := service.AnalyzeMessage(context.Background(), Message{Body: "   \n\t "})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAnalyzeMessageClassifierFailure(t *testing.T) {
	classifierErr := errors.New("model not loaded")
	service := newTestService(t, &stubClassifier{err: classifierErr}, &stubExplainer{}, nil)

	_, err := service.AnalyzeMessage(context.Background(), Message{Body: "hello"})
	require.ErrorIs(t, err, classifierErr)
}

func TestAnalyzeMessageCached(t *testing.T) {
	cache := newFakeCache()
	classifier := &stubClassifier{label: LabelSafe}
	explainer := &stubExplainer{text: "fine"}
	service := newTestService(t, classifier, explainer, cache)

	first, err := service.AnalyzeMessage(context.Background(), Message{Body: "hello again"})
	require.NoError(t, err)

	second, err := service.AnalyzeMessage(context.Background(), Message{Body: "hello again"})
	require.NoError(t, err)

	assert.Equal(t, 1, classifier.calls, "cached result must not re-run the classifier")
	assert.Equal(t, 1, explainer.calls, "cached result must not re-run the explainer")
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.Metadata.ScanID, second.Metadata.ScanID)
}

func TestScanFileMalicious(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{text: "dropper markers"}, nil)

	result, err := service.ScanFile(context.Background(), "payload.ps1",
		[]byte("powershell -enc SQBFAFgA"), "")
	require.NoError(t, err)

	// extension weight 30 plus one signature weight 40 reaches the malicious
	// threshold; reported risk is nudged up by 10
	assert.Equal(t, VerdictMalicious, result.Verdict)
	assert.Equal(t, 80, result.RiskScore)
	assert.Equal(t, "Complete", result.Status)
	assert.Len(t, result.Findings, 2)
	assert.True(t, result.Signals[SignalSuspiciousExtension])
	assert.True(t, result.Signals[SignalMaliciousSignature])
	assert.Regexp(t, regexp.MustCompile(`^MAL-[0-9A-F]{8}$`), result.Metadata.ScanID)
	assert.Equal(t, MalwareEngine, result.Metadata.Engine)
}

func TestScanFileClean(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{}, nil)

	result, err := service.ScanFile(context.Background(), "notes.txt", []byte("plain notes"), "")
	require.NoError(t, err)

	assert.Equal(t, VerdictClean, result.Verdict)
	assert.Equal(t, 10, result.RiskScore)
	assert.Empty(t, result.Findings)
}

func TestAnalyzeVaultFile(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{}, nil)

	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}

	result, err := service.AnalyzeVaultFile(context.Background(), "blob.bin", uniform, "")
	require.NoError(t, err)

	assert.Equal(t, 8.0, result.Entropy)
	assert.Equal(t, VerdictMalicious, result.Verdict)
	assert.Equal(t, 90, result.RiskScore)
	assert.Regexp(t, regexp.MustCompile(`^VAULT-[0-9A-F]{8}$`), result.Metadata.ScanID)
	assert.Equal(t, VaultEngine, result.Metadata.Engine)

	result, err = service.AnalyzeVaultFile(context.Background(), "zeros.bin", make([]byte, 64), "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Entropy)
	assert.Equal(t, VerdictClean, result.Verdict)
	assert.Equal(t, 20, result.RiskScore)
}

func TestAnalyzeVaultFileNoInput(t *testing.T) {
	service := newTestService(t, &stubClassifier{label: LabelSafe}, &stubExplainer{}, nil)

	_, err := service.AnalyzeVaultFile(context.Background(), "", nil, "")
	require.ErrorIs(t, err, ErrNoFile)

	_, err = service.ScanFile(context.Background(), "", nil, "")
	require.ErrorIs(t, err, ErrNoFile)
}

func TestEntropyWindow(t *testing.T) {
	extractor, err := NewSignalExtractor(DefaultSignalVocabulary(), zap.NewNop())
	require.NoError(t, err)
	scanner := NewFileScanner(DefaultDenyExtensions(), DefaultSignatures(), zap.NewNop())

	service := NewAnalysisService(extractor, scanner, &stubClassifier{label: LabelSafe},
		&stubExplainer{}, nil, DefaultFusionPolicy(), zap.NewNop(), false, 0, 4)

	// Only the first 4 bytes are read: "aabb" followed by a long zero tail
	data := append([]byte("aabb"), make([]byte, 4096)...)
	result, err := service.AnalyzeVaultFile(context.Background(), "windowed.bin", data, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Entropy)
}
