package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	OCR     OCRConfig     `yaml:"ocr"`
	AI      AIConfig      `yaml:"ai"`
	Archive ArchiveConfig `yaml:"archive"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// OCRConfig points at the serverless GPU OCR worker.
type OCRConfig struct {
	APIURL         string `yaml:"api_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	HealthTimeout  int    `yaml:"health_timeout_seconds"`
}

// AIConfig points at the chat-completion endpoint used for structuring.
// An empty APIKey is valid: the structuring service then runs in permanent
// fallback mode instead of refusing to start.
type AIConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// ArchiveConfig enables object-storage archival of uploaded documents.
// Leaving Endpoint empty disables archival entirely.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Load reads the YAML config file, applies environment overrides, and
// fills in defaults. A missing file is not an error: the service can run
// entirely from environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.OCR.TimeoutSeconds == 0 {
		cfg.OCR.TimeoutSeconds = 120
	}
	if cfg.OCR.HealthTimeout == 0 {
		cfg.OCR.HealthTimeout = 10
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.1
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 3000
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.Archive.Bucket == "" {
		cfg.Archive.Bucket = "contract-uploads"
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployment environments inject endpoints and
// secrets without a config file. Environment wins over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OCR_API_URL"); v != "" {
		cfg.OCR.APIURL = v
	}
	if v := os.Getenv("OCR_API_KEY"); v != "" {
		cfg.OCR.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
}
