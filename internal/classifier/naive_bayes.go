// Package classifier performs inference for the pre-trained statistical text
// classifier. The model is produced offline by the training pipeline and
// exported as JSON: the TF-IDF vectorizer vocabulary with IDF weights plus
// the multinomial naive Bayes class priors and feature log probabilities.
// This package never trains or updates the model.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

// tokenPattern mirrors the vectorizer's tokenizer: runs of two or more word
// characters, lowercased.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Model is the serialized classifier produced by the training collaborator.
type Model struct {
	Classes        []string       `json:"classes"`
	ClassLogPrior  []float64      `json:"class_log_prior"`
	Vocabulary     map[string]int `json:"vocabulary"`
	IDF            []float64      `json:"idf"`
	FeatureLogProb [][]float64    `json:"feature_log_prob"`
}

// NaiveBayes classifies messages with TF-IDF vectorization followed by
// multinomial naive Bayes scoring. Classification is pure and deterministic.
type NaiveBayes struct {
	model  Model
	logger *zap.Logger
}

// Load reads and validates a model file.
func Load(path string, logger *zap.Logger) (*NaiveBayes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier model: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse classifier model: %w", err)
	}

	nb, err := New(model, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded classifier model",
		zap.String("path", path),
		zap.Int("classes", len(model.Classes)),
		zap.Int("vocabulary", len(model.Vocabulary)))
	return nb, nil
}

// New builds a classifier from an in-memory model after validating its
// dimensions.
func New(model Model, logger *zap.Logger) (*NaiveBayes, error) {
	if len(model.Classes) == 0 {
		return nil, fmt.Errorf("classifier model has no classes")
	}
	if len(model.ClassLogPrior) != len(model.Classes) {
		return nil, fmt.Errorf("classifier model: %d priors for %d classes",
			len(model.ClassLogPrior), len(model.Classes))
	}
	if len(model.FeatureLogProb) != len(model.Classes) {
		return nil, fmt.Errorf("classifier model: %d probability rows for %d classes",
			len(model.FeatureLogProb), len(model.Classes))
	}

	features := len(model.IDF)
	if features != len(model.Vocabulary) {
		return nil, fmt.Errorf("classifier model: %d idf weights for %d vocabulary terms",
			features, len(model.Vocabulary))
	}
	for i, row := range model.FeatureLogProb {
		if len(row) != features {
			return nil, fmt.Errorf("classifier model: row %d has %d features, want %d",
				i, len(row), features)
		}
	}
	for term, idx := range model.Vocabulary {
		if idx < 0 || idx >= features {
			return nil, fmt.Errorf("classifier model: term %q maps to index %d out of range", term, idx)
		}
	}
	for _, class := range model.Classes {
		switch core.Label(class) {
		case core.LabelSafe, core.LabelSuspicious, core.LabelDangerous:
		default:
			return nil, fmt.Errorf("classifier model: unknown class %q", class)
		}
	}

	return &NaiveBayes{model: model, logger: logger}, nil
}

// Classify returns the label with the highest posterior score for the
// message.
func (c *NaiveBayes) Classify(ctx context.Context, message string) (core.Label, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	vector := c.vectorize(message)

	best := 0
	bestScore := math.Inf(-1)
	for k := range c.model.Classes {
		score := c.model.ClassLogPrior[k]
		for idx, x := range vector {
			score += x * c.model.FeatureLogProb[k][idx]
		}
		if score > bestScore {
			bestScore = score
			best = k
		}
	}

	label := core.Label(c.model.Classes[best])
	if c.logger != nil {
		c.logger.Debug("Classified message",
			zap.String("label", string(label)),
			zap.Int("terms", len(vector)))
	}
	return label, nil
}

// vectorize computes the sparse L2-normalized TF-IDF vector of the message.
func (c *NaiveBayes) vectorize(message string) map[int]float64 {
	counts := make(map[int]float64)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(message), -1) {
		if idx, ok := c.model.Vocabulary[token]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return counts
	}

	norm := 0.0
	for idx := range counts {
		counts[idx] *= c.model.IDF[idx]
		norm += counts[idx] * counts[idx]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}
