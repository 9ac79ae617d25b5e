package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

type stubClassifier struct {
	label core.Label
	err   error
}

func (c *stubClassifier) Classify(_ context.Context, _ string) (core.Label, error) {
	return c.label, c.err
}

type stubExplainer struct{}

func (stubExplainer) Explain(_ context.Context, _ string, _ string) string {
	return "canned explanation"
}

func newTestServer(t *testing.T, classifier core.TextClassifier) *Server {
	t.Helper()
	extractor, err := core.NewSignalExtractor(core.DefaultSignalVocabulary(), zap.NewNop())
	require.NoError(t, err)
	scanner := core.NewFileScanner(core.DefaultDenyExtensions(), core.DefaultSignatures(), zap.NewNop())

	service := core.NewAnalysisService(
		extractor, scanner, classifier, stubExplainer{}, nil,
		core.DefaultFusionPolicy(), zap.NewNop(), false, time.Hour, 0)

	return NewServer(service, zap.NewNop(), "127.0.0.1:0", 10*1024*1024)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelSafe})

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelDangerous})

	payload := `{"message":"URGENT: verify your paypal password at https://evil.example/login"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Dangerous", body["risk"])
	assert.Equal(t, float64(7), body["score"])
	assert.Equal(t, "canned explanation", body["ai_explanation"])
	assert.NotEmpty(t, body["recommended_action"])
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelSafe})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", decodeBody(t, resp)["error"])
}

func TestAnalyzeClassifierUnavailable(t *testing.T) {
	s := newTestServer(t, &stubClassifier{err: errors.New("model offline")})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func multipartFile(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestScanFile(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelSafe})

	buf, contentType := multipartFile(t, "payload.ps1", []byte("powershell -enc SQBFAFgA"))
	req := httptest.NewRequest(http.MethodPost, "/scan-file", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Malicious", body["verdict"])
	assert.Equal(t, float64(80), body["risk_score"])
	assert.Equal(t, "Complete", body["status"])
	assert.Equal(t, "payload.ps1", body["file_name"])
}

func TestScanFileMissingUpload(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelSafe})

	resp, err := s.app.Test(httptest.NewRequest(http.MethodPost, "/scan-file", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", decodeBody(t, resp)["error"])
}

func TestVaultAnalyze(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: core.LabelSafe})

	buf, contentType := multipartFile(t, "zeros.bin", make([]byte, 64))
	req := httptest.NewRequest(http.MethodPost, "/vault-analyze", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Clean", body["verdict"])
	assert.Equal(t, float64(0), body["entropy"])
	assert.Equal(t, float64(20), body["risk_score"])
}
