package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`

	// Backend selection
	Backend          string        `yaml:"backend"` // lorem, anthropic, openrouter, gemini, http
	Model            string        `yaml:"model"`   // Empty = catalog default for the backend
	SystemPrompt     string        `yaml:"system_prompt"`
	AnthropicAPIKey  string        `yaml:"-"`
	OpenRouterAPIKey string        `yaml:"-"`
	GeminiAPIKey     string        `yaml:"-"`
	BackendURL       string        `yaml:"backend_url"`
	BackendTimeout   time.Duration `yaml:"backend_timeout"`
	LoremDelay       time.Duration `yaml:"lorem_delay"`

	// Session behaviour
	LateResultPolicy string `yaml:"late_result_policy"` // append or drop

	// Logging
	LogDir      string `yaml:"log_dir"`
	MaxLogFiles int    `yaml:"max_log_files"`

	// Debug enables the session debug endpoint
	Debug bool `yaml:"debug"`
}

// Load reads configuration from the environment.
// If CONFIG_FILE is set, the YAML file is applied on top (env API keys are never read from it).
func Load() (*Config, error) {
	return LoadWithFile(os.Getenv("CONFIG_FILE"))
}

// LoadWithFile reads configuration from the environment and overlays the YAML file at path.
func LoadWithFile(path string) (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Backend configuration
		Backend:          getEnv("BACKEND", "lorem"),
		Model:            getEnv("MODEL", ""),
		SystemPrompt:     getEnv("SYSTEM_PROMPT", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		BackendURL:       getEnv("BACKEND_URL", ""),
		LateResultPolicy: getEnv("LATE_RESULT_POLICY", "append"),
		LogDir:           getEnv("LOG_DIR", "logs"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}

	var err error
	if cfg.BackendTimeout, err = getDurationEnv("BACKEND_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.LoremDelay, err = getDurationEnv("LOREM_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxLogFiles, err = getIntEnv("MAX_LOG_FILES", DefaultMaxLogFiles); err != nil {
		return nil, err
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays non-zero values from a YAML file
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.LateResultPolicy = strings.ToLower(strings.TrimSpace(c.LateResultPolicy))
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.Backend,
			validation.Required,
			validation.In("lorem", "anthropic", "openrouter", "gemini", "http"),
		),
		validation.Field(&c.BackendURL,
			validation.When(c.Backend == "http", validation.Required),
		),
		validation.Field(&c.BackendTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LoremDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.LateResultPolicy, validation.In("append", "drop")),
		validation.Field(&c.MaxLogFiles, validation.Min(1)),
		validation.Field(&c.SystemPrompt, validation.Length(0, MaxSystemPromptLength)),
	)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
