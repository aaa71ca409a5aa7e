package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the minutes server.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	AI       AIConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
}

type ServerConfig struct {
	Port        int
	Env         string
	CORSOrigins []string
}

type UploadConfig struct {
	Dir              string
	MaxRequestBytes  int64
	MaxArtifactBytes int64
}

// Adapter modes. ModeFixture swaps both adapters for the deterministic demo
// variants.
const (
	ModeLive    = "live"
	ModeFixture = "fixture"
)

type AIConfig struct {
	Mode               string
	ExtractionProvider string
	InferenceTimeout   time.Duration
	OpenAI             OpenAIConfig
	Anthropic          AnthropicConfig
	Ollama             OllamaConfig
}

// OpenAIConfig configures any OpenAI-compatible endpoint; Groq is the default.
type OpenAIConfig struct {
	BaseURL         string
	APIKey          string
	TranscribeModel string
	ExtractionModel string
}

type AnthropicConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

// DatabaseConfig enables the export archive when URL is set.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the job status mirror when URL is set.
type RedisConfig struct {
	URL       string
	StatusTTL time.Duration
}

// NATSConfig enables lifecycle events when URL is set.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

var validExtractionProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"ollama":    true,
}

const mib = 1 << 20

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        envInt("PORT", 5000),
			Env:         envString("MINUTES_ENV", "development"),
			CORSOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Upload: UploadConfig{
			Dir:              envString("UPLOAD_DIR", "./uploads"),
			MaxRequestBytes:  envInt64("UPLOAD_MAX_BYTES", 100*mib),
			MaxArtifactBytes: envInt64("TRANSCRIPTION_MAX_BYTES", 25*mib),
		},
		AI: AIConfig{
			Mode:               strings.ToLower(os.Getenv("AI_MODE")),
			ExtractionProvider: envString("EXTRACTION_PROVIDER", "openai"),
			InferenceTimeout:   envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 300*time.Second),
			OpenAI: OpenAIConfig{
				BaseURL:         envString("OPENAI_BASE_URL", "https://api.groq.com/openai/v1"),
				APIKey:          firstEnv("GROQ_API_KEY", "OPENAI_API_KEY"),
				TranscribeModel: envString("WHISPER_MODEL", "whisper-large-v3"),
				ExtractionModel: envString("GPT_MODEL", "llama-3.3-70b-versatile"),
			},
			Anthropic: AnthropicConfig{
				BaseURL: envString("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
				APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
				Model:   envString("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
			},
			Ollama: OllamaConfig{
				BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("OLLAMA_MODEL", "llama3"),
			},
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:       os.Getenv("REDIS_URL"),
			StatusTTL: envDuration("REDIS_STATUS_TTL", 24*time.Hour),
		},
		NATS: NATSConfig{
			URL:           os.Getenv("NATS_URL"),
			SubjectPrefix: envString("NATS_SUBJECT_PREFIX", "minutes.job"),
		},
	}

	if cfg.AI.Mode == "" {
		cfg.AI.Mode = ModeLive
		if cfg.AI.OpenAI.APIKey == "" {
			cfg.AI.Mode = ModeFixture
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Fixture reports whether both adapters run on demo data.
func (c AIConfig) Fixture() bool {
	return c.Mode == ModeFixture
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.Upload.MaxRequestBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Upload.MaxArtifactBytes <= 0 {
		return fmt.Errorf("TRANSCRIPTION_MAX_BYTES must be positive")
	}
	if c.AI.InferenceTimeout <= 0 {
		return fmt.Errorf("AI_INFERENCE_TIMEOUT_SECS must be positive, got %s", c.AI.InferenceTimeout)
	}

	switch c.AI.Mode {
	case ModeLive, ModeFixture:
	default:
		return fmt.Errorf("AI_MODE must be one of live, fixture; got %q", c.AI.Mode)
	}
	if !validExtractionProviders[c.AI.ExtractionProvider] {
		return fmt.Errorf("EXTRACTION_PROVIDER must be one of openai, anthropic, ollama; got %q", c.AI.ExtractionProvider)
	}

	if c.AI.Mode == ModeLive {
		if c.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY or OPENAI_API_KEY is required when AI_MODE is live")
		}
		if c.AI.ExtractionProvider == "anthropic" && c.AI.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when EXTRACTION_PROVIDER is anthropic")
		}
		if !isHTTPURL(c.AI.OpenAI.BaseURL) {
			return fmt.Errorf("OPENAI_BASE_URL must start with http:// or https://, got %q", c.AI.OpenAI.BaseURL)
		}
		if c.AI.ExtractionProvider == "anthropic" && !isHTTPURL(c.AI.Anthropic.BaseURL) {
			return fmt.Errorf("ANTHROPIC_BASE_URL must start with http:// or https://, got %q", c.AI.Anthropic.BaseURL)
		}
		if c.AI.ExtractionProvider == "ollama" && !isHTTPURL(c.AI.Ollama.BaseURL) {
			return fmt.Errorf("OLLAMA_BASE_URL must start with http:// or https://, got %q", c.AI.Ollama.BaseURL)
		}
	}

	if c.Database.URL != "" && !hasScheme(c.Database.URL, "postgres://", "postgresql://") {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DATABASE_MAX_IDLE_CONNS must be between 0 and DATABASE_MAX_OPEN_CONNS, got %d", c.Database.MaxIdleConns)
	}
	if c.Database.ConnMaxLifetime <= 0 {
		return fmt.Errorf("DATABASE_CONN_MAX_LIFETIME must be positive, got %s", c.Database.ConnMaxLifetime)
	}
	if c.Redis.StatusTTL <= 0 {
		return fmt.Errorf("REDIS_STATUS_TTL must be positive, got %s", c.Redis.StatusTTL)
	}
	if c.Redis.URL != "" && !hasScheme(c.Redis.URL, "redis://", "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://")
	}
	if c.NATS.URL != "" && !hasScheme(c.NATS.URL, "nats://", "tls://") {
		return fmt.Errorf("NATS_URL must start with nats:// or tls://")
	}

	return nil
}

func isHTTPURL(u string) bool {
	return hasScheme(u, "http://", "https://")
}

func hasScheme(u string, schemes ...string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(u, s) {
			return true
		}
	}
	return false
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
