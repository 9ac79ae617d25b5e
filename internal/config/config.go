package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/suraksha/")
	v.AddConfigPath("$HOME/.suraksha")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SURAKSHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.mode", "http")
	v.SetDefault("server.listen_address", "0.0.0.0:5000")
	v.SetDefault("server.max_upload_size", 10*1024*1024)

	// Engine heuristics. Lists are configuration data so vocabularies and
	// thresholds can change without touching fusion logic.
	v.SetDefault("engine.entropy_window", 0)
	v.SetDefault("engine.signals.url_pattern", `https?://\S+`)
	v.SetDefault("engine.signals.email_pattern", `[\w.-]+@[\w.-]+\.\w+`)
	v.SetDefault("engine.signals.urgency_keywords", []string{
		"urgent", "immediately", "act now", "verify now",
	})
	v.SetDefault("engine.signals.impersonation_keywords", []string{
		"bank", "paypal", "government", "admin", "amazon",
	})
	v.SetDefault("engine.signals.credential_keywords", []string{
		"otp", "password", "login", "verify account",
	})
	v.SetDefault("engine.files.deny_extensions", []string{
		".exe", ".dll", ".js", ".bat", ".cmd", ".ps1", ".vbs", ".jar",
	})
	v.SetDefault("engine.files.signatures", map[string]string{
		"powershell-encoded-command":   "powershell -enc",
		"powershell-invoke-expression": "Invoke-Expression",
		"cmd-remote-shell":             "cmd.exe /c",
		"wscript-shell":                "WScript.Shell",
		"eval-base64":                  "eval(base64_decode",
		"remote-thread-injection":      "CreateRemoteThread",
		"curl-pipe-shell":              "curl | sh",
	})

	// Fusion policy defaults
	v.SetDefault("engine.fusion.text_dangerous_threshold", 4)
	v.SetDefault("engine.fusion.text_suspicious_threshold", 2)
	v.SetDefault("engine.fusion.weight_dangerous", 3)
	v.SetDefault("engine.fusion.weight_suspicious", 1)
	v.SetDefault("engine.fusion.extension_weight", 30)
	v.SetDefault("engine.fusion.signature_weight", 40)
	v.SetDefault("engine.fusion.file_malicious_threshold", 70)
	v.SetDefault("engine.fusion.file_suspicious_threshold", 40)
	v.SetDefault("engine.fusion.entropy_malicious", 7.6)
	v.SetDefault("engine.fusion.entropy_suspicious", 6.8)
	v.SetDefault("engine.fusion.entropy_malicious_risk", 90)
	v.SetDefault("engine.fusion.entropy_suspicious_risk", 60)
	v.SetDefault("engine.fusion.entropy_clean_risk", 20)

	// Classifier defaults
	v.SetDefault("classifier.model_path", "/etc/suraksha/model.json")

	// Explanation defaults
	v.SetDefault("explain.provider", "gemini")
	v.SetDefault("explain.cooldown", "5s")
	v.SetDefault("explain.timeout", "8s")
	v.SetDefault("explain.max_prompt_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/suraksha_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/suraksha")

	// Postfix gateway defaults
	v.SetDefault("postfix.listen_address", "0.0.0.0:10025")
	v.SetDefault("postfix.address", "127.0.0.1")
	v.SetDefault("postfix.port", 10026)
	v.SetDefault("postfix.reject_dangerous", false)
	v.SetDefault("postfix.headers.verdict", "X-Phish-Verdict")
	v.SetDefault("postfix.headers.score", "X-Phish-Score")
	v.SetDefault("postfix.headers.signals", "X-Phish-Signals")
	v.SetDefault("postfix.trusted_domains", []string{})
	v.SetDefault("postfix.tag_subject", false)
	v.SetDefault("postfix.subject_prefix", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetStringMapString gets a string map value from the configuration
func (c *Config) GetStringMapString(key string) map[string]string {
	return c.v.GetStringMapString(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
