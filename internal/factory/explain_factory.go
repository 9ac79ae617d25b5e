package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/adapters/bedrock"
	"github.com/Ishusharma9096/Suraksha-AI/internal/adapters/gemini"
	"github.com/Ishusharma9096/Suraksha-AI/internal/adapters/openai"
	"github.com/Ishusharma9096/Suraksha-AI/internal/config"
	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/explain"
)

// ExplainFactory creates explanation clients and the gatekeeper around them
type ExplainFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExplainFactory creates a new explanation factory
func NewExplainFactory(cfg *config.Config, logger *zap.Logger) *ExplainFactory {
	return &ExplainFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateExplanationClient creates an explanation client based on the
// configuration. Provider "none" yields a nil client, which disables live
// explanations while keeping the localized fallbacks.
func (f *ExplainFactory) CreateExplanationClient() (core.ExplanationClient, error) {
	explainConfig := f.cfg.GetExplain()

	switch explainConfig.Provider {
	case "gemini":
		geminiConfig := f.cfg.GetGemini()
		return gemini.NewClient(
			geminiConfig.APIKey,
			geminiConfig.ModelName,
			geminiConfig.MaxTokens,
			geminiConfig.Temperature,
			geminiConfig.TopP,
			f.logger,
		)
	case "openai":
		openaiConfig := f.cfg.GetOpenAI()
		return openai.NewClient(
			openaiConfig.APIKey,
			openaiConfig.ModelName,
			openaiConfig.MaxTokens,
			openaiConfig.Temperature,
			openaiConfig.TopP,
			f.logger,
		), nil
	case "bedrock":
		bedrockConfig := f.cfg.GetBedrock()
		return bedrock.NewClient(
			bedrockConfig.Region,
			bedrockConfig.ModelID,
			bedrockConfig.MaxTokens,
			bedrockConfig.Temperature,
			bedrockConfig.TopP,
			f.logger,
		)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported explanation provider: %s", explainConfig.Provider)
	}
}

// CreateGatekeeper wraps an explanation client in the cooldown gatekeeper
func (f *ExplainFactory) CreateGatekeeper(client core.ExplanationClient) (*explain.Gatekeeper, error) {
	cooldown, err := f.cfg.GetDuration("explain.cooldown")
	if err != nil {
		return nil, fmt.Errorf("invalid explanation cooldown: %w", err)
	}
	timeout, err := f.cfg.GetDuration("explain.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid explanation timeout: %w", err)
	}

	return explain.NewGatekeeper(
		client,
		f.logger,
		cooldown,
		timeout,
		f.cfg.GetInt("explain.max_prompt_size"),
	), nil
}
