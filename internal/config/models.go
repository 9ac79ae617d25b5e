package config

import (
	"sort"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

// ServerConfig represents the transport configuration
type ServerConfig struct {
	Mode          string
	ListenAddress string
	MaxUploadSize int
}

// ExplainConfig represents the explanation gatekeeper configuration
type ExplainConfig struct {
	Provider      string
	Cooldown      string
	Timeout       string
	MaxPromptSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// PostfixConfig represents the SMTP gateway configuration
type PostfixConfig struct {
	ListenAddress   string
	Address         string
	Port            int
	RejectDangerous bool
	VerdictHeader   string
	ScoreHeader     string
	SignalsHeader   string
	TrustedDomains  []string
	TagSubject      bool
	SubjectPrefix   string
}

// GetServer returns the transport configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Mode:          c.GetString("server.mode"),
		ListenAddress: c.GetString("server.listen_address"),
		MaxUploadSize: c.GetInt("server.max_upload_size"),
	}
}

// GetSignalVocabulary returns the text heuristic lists
func (c *Config) GetSignalVocabulary() core.SignalVocabulary {
	return core.SignalVocabulary{
		URLPattern:            c.GetString("engine.signals.url_pattern"),
		EmailPattern:          c.GetString("engine.signals.email_pattern"),
		UrgencyKeywords:       c.GetStringSlice("engine.signals.urgency_keywords"),
		ImpersonationKeywords: c.GetStringSlice("engine.signals.impersonation_keywords"),
		CredentialKeywords:    c.GetStringSlice("engine.signals.credential_keywords"),
	}
}

// GetDenyExtensions returns the file extension deny-set
func (c *Config) GetDenyExtensions() []string {
	return c.GetStringSlice("engine.files.deny_extensions")
}

// GetSignatures returns the byte signature list in a stable order
func (c *Config) GetSignatures() []core.Signature {
	entries := c.GetStringMapString("engine.files.signatures")
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	signatures := make([]core.Signature, 0, len(names))
	for _, name := range names {
		signatures = append(signatures, core.Signature{
			Name:    name,
			Pattern: []byte(entries[name]),
		})
	}
	return signatures
}

// GetFusionPolicy returns the scoring threshold tables
func (c *Config) GetFusionPolicy() core.FusionPolicy {
	return core.FusionPolicy{
		TextDangerousThreshold:  c.GetInt("engine.fusion.text_dangerous_threshold"),
		TextSuspiciousThreshold: c.GetInt("engine.fusion.text_suspicious_threshold"),
		WeightDangerous:         c.GetInt("engine.fusion.weight_dangerous"),
		WeightSuspicious:        c.GetInt("engine.fusion.weight_suspicious"),
		ExtensionWeight:         c.GetInt("engine.fusion.extension_weight"),
		SignatureWeight:         c.GetInt("engine.fusion.signature_weight"),
		FileMaliciousThreshold:  c.GetInt("engine.fusion.file_malicious_threshold"),
		FileSuspiciousThreshold: c.GetInt("engine.fusion.file_suspicious_threshold"),
		EntropyMalicious:        c.GetFloat64("engine.fusion.entropy_malicious"),
		EntropySuspicious:       c.GetFloat64("engine.fusion.entropy_suspicious"),
		EntropyMaliciousRisk:    c.GetInt("engine.fusion.entropy_malicious_risk"),
		EntropySuspiciousRisk:   c.GetInt("engine.fusion.entropy_suspicious_risk"),
		EntropyCleanRisk:        c.GetInt("engine.fusion.entropy_clean_risk"),
	}
}

// GetExplain returns the explanation gatekeeper configuration
func (c *Config) GetExplain() ExplainConfig {
	return ExplainConfig{
		Provider:      c.GetString("explain.provider"),
		Cooldown:      c.GetString("explain.cooldown"),
		Timeout:       c.GetString("explain.timeout"),
		MaxPromptSize: c.GetInt("explain.max_prompt_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetPostfix returns the SMTP gateway configuration
func (c *Config) GetPostfix() PostfixConfig {
	return PostfixConfig{
		ListenAddress:   c.GetString("postfix.listen_address"),
		Address:         c.GetString("postfix.address"),
		Port:            c.GetInt("postfix.port"),
		RejectDangerous: c.GetBool("postfix.reject_dangerous"),
		VerdictHeader:   c.GetString("postfix.headers.verdict"),
		ScoreHeader:     c.GetString("postfix.headers.score"),
		SignalsHeader:   c.GetString("postfix.headers.signals"),
		TrustedDomains:  c.GetStringSlice("postfix.trusted_domains"),
		TagSubject:      c.GetBool("postfix.tag_subject"),
		SubjectPrefix:   c.GetString("postfix.subject_prefix"),
	}
}
