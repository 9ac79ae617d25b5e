package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/classifier"
	"github.com/Ishusharma9096/Suraksha-AI/internal/config"
	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

// ClassifierFactory creates the text classifier from its exported model
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextClassifier loads the classifier model from the configured path
func (f *ClassifierFactory) CreateTextClassifier() (core.TextClassifier, error) {
	modelPath := f.cfg.GetString("classifier.model_path")
	nb, err := classifier.Load(modelPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier model: %w", err)
	}
	return nb, nil
}
