package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/config"
	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/factory"
	"github.com/Ishusharma9096/Suraksha-AI/internal/logging"
	"github.com/Ishusharma9096/Suraksha-AI/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExplainFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}

	// Register explanation client and the gatekeeper around it
	if err := container.Provide(func(f *factory.ExplainFactory) (core.ExplanationClient, error) {
		return f.CreateExplanationClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ExplainFactory, client core.ExplanationClient) (core.Explainer, error) {
		return f.CreateGatekeeper(client)
	}); err != nil {
		return nil, err
	}

	// Register result cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ResultCache, error) {
		return f.CreateResultCache()
	}); err != nil {
		return nil, err
	}

	// Register text classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.TextClassifier, error) {
		return f.CreateTextClassifier()
	}); err != nil {
		return nil, err
	}

	// Register signal extractor and file scanner
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*core.SignalExtractor, error) {
		return core.NewSignalExtractor(cfg.GetSignalVocabulary(), logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.FileScanner {
		return core.NewFileScanner(cfg.GetDenyExtensions(), cfg.GetSignatures(), logger)
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(
		cfg *config.Config,
		logger *zap.Logger,
		extractor *core.SignalExtractor,
		scanner *core.FileScanner,
		textClassifier core.TextClassifier,
		explainer core.Explainer,
		resultCache core.ResultCache,
		cacheFactory *factory.CacheFactory,
	) (*core.AnalysisService, error) {
		cacheTTL, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		return core.NewAnalysisService(
			extractor,
			scanner,
			textClassifier,
			explainer,
			resultCache,
			cfg.GetFusionPolicy(),
			logger,
			cacheFactory.IsCacheEnabled(),
			cacheTTL,
			cfg.GetInt("engine.entropy_window"),
		), nil
	}); err != nil {
		return nil, err
	}

	// Register transport gateway
	if err := container.Provide(func(f *factory.GatewayFactory) (ports.Gateway, error) {
		return f.CreateGateway()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
