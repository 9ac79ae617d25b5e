package classifier

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

// testModel separates "urgent"/"password" (Dangerous) from "hello"/"meeting"
// (Safe), with a Safe-leaning prior for out-of-vocabulary text.
func testModel() Model {
	return Model{
		Classes:       []string{"Dangerous", "Safe"},
		ClassLogPrior: []float64{math.Log(0.4), math.Log(0.6)},
		Vocabulary: map[string]int{
			"urgent":   0,
			"password": 1,
			"hello":    2,
			"meeting":  3,
		},
		IDF: []float64{1.2, 1.5, 1.0, 1.1},
		FeatureLogProb: [][]float64{
			{math.Log(0.4), math.Log(0.4), math.Log(0.1), math.Log(0.1)},
			{math.Log(0.1), math.Log(0.1), math.Log(0.4), math.Log(0.4)},
		},
	}
}

func TestClassify(t *testing.T) {
	nb, err := New(testModel(), zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		message string
		want    core.Label
	}{
		{"URGENT: send your password now", core.LabelDangerous},
		{"hello, moving our meeting to noon", core.LabelSafe},
		{"completely unrelated words", core.LabelSafe}, // prior decides
	}

	for _, tt := range tests {
		label, err := nb.Classify(context.Background(), tt.message)
		require.NoError(t, err)
		assert.Equal(t, tt.want, label, "message %q", tt.message)
	}
}

func TestClassifyShortTokensIgnored(t *testing.T) {
	nb, err := New(testModel(), zap.NewNop())
	require.NoError(t, err)

	// Single-character tokens never match the vectorizer's token pattern
	label, err := nb.Classify(context.Background(), "a b c d e")
	require.NoError(t, err)
	assert.Equal(t, core.LabelSafe, label)
}

func TestClassifyCancelledContext(t *testing.T) {
	nb, err := New(testModel(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = nb.Classify(ctx, "urgent")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Model)
	}{
		{"no classes", func(m *Model) { m.Classes = nil }},
		{"prior count mismatch", func(m *Model) { m.ClassLogPrior = m.ClassLogPrior[:1] }},
		{"probability row count mismatch", func(m *Model) { m.FeatureLogProb = m.FeatureLogProb[:1] }},
		{"idf length mismatch", func(m *Model) { m.IDF = m.IDF[:2] }},
		{"row width mismatch", func(m *Model) { m.FeatureLogProb[1] = m.FeatureLogProb[1][:3] }},
		{"vocabulary index out of range", func(m *Model) { m.Vocabulary["rogue"] = 9; m.IDF = append(m.IDF, 1.0) }},
		{"unknown class", func(m *Model) { m.Classes[0] = "Spam" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testModel()
			tt.mutate(&model)
			_, err := New(model, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	data, err := json.Marshal(testModel())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	nb, err := Load(path, zap.NewNop())
	require.NoError(t, err)

	label, err := nb.Classify(context.Background(), "urgent password reset")
	require.NoError(t, err)
	assert.Equal(t, core.LabelDangerous, label)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path, zap.NewNop())
	assert.Error(t, err)
}
