package di

import (
	"flag"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/config"
	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/factory"
	"github.com/Ishusharma9096/Suraksha-AI/internal/logging"
)

// CLIFlags contains all command line flags for the CLI scanner
type CLIFlags struct {
	// Input flags
	Message   string
	InputFile string
	VaultMode bool
	Language  string

	// Classifier flags
	ModelPath string

	// Explanation provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Cooldown    string
	Timeout     string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Input flags
	flag.StringVar(&flags.Message, "message", "", "Message text to analyze")
	flag.StringVar(&flags.InputFile, "file", "", "File to scan")
	flag.BoolVar(&flags.VaultMode, "vault", false, "Score the file by entropy alone")
	flag.StringVar(&flags.Language, "language", "", "BCP-47 language code for the explanation")

	// Classifier flags
	flag.StringVar(&flags.ModelPath, "model", "/etc/suraksha/model.json", "Path to the classifier model")

	// Explanation provider flags
	flag.StringVar(&flags.Provider, "provider", "none", "Explanation provider (gemini, openai, bedrock, none)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for the explanation response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for explanation generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for explanation generation")
	flag.StringVar(&flags.Cooldown, "cooldown", "5s", "Minimum interval between live explanation calls")
	flag.StringVar(&flags.Timeout, "timeout", "8s", "Timeout for a single explanation call")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Output flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI scanner
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExplainFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
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

	// Register analysis service with no cache
	if err := container.Provide(func(
		cfg *config.Config,
		logger *zap.Logger,
		extractor *core.SignalExtractor,
		scanner *core.FileScanner,
		textClassifier core.TextClassifier,
		explainer core.Explainer,
	) *core.AnalysisService {
		return core.NewAnalysisService(
			extractor,
			scanner,
			textClassifier,
			explainer,
			nil,   // No cache for CLI
			cfg.GetFusionPolicy(),
			logger,
			false, // Cache disabled
			time.Duration(0),
			cfg.GetInt("engine.entropy_window"),
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.model_path", flags.ModelPath)

	// Set explanation provider
	v.Set("explain.provider", flags.Provider)
	v.Set("explain.cooldown", flags.Cooldown)
	v.Set("explain.timeout", flags.Timeout)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	return config.NewFromViper(v)
}
