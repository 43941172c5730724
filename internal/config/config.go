// Package config loads and hot-reloads docsift configuration via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	Provider   string           `mapstructure:"provider" yaml:"provider"` // "ollama" or "openai"
	Ollama     OllamaConfig     `mapstructure:"ollama" yaml:"ollama"`
	OpenAI     OpenAIConfig     `mapstructure:"openai" yaml:"openai"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Screening  ScreeningConfig  `mapstructure:"screening" yaml:"screening"`
	Inbox      InboxConfig      `mapstructure:"inbox" yaml:"inbox"`
}

// OllamaConfig configures the local Ollama inference service.
type OllamaConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	Model      string `mapstructure:"model" yaml:"model"`
	EmbedModel string `mapstructure:"embed_model" yaml:"embed_model"`
}

// OpenAIConfig configures an OpenAI-compatible inference service.
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // ${ENV_VAR} references allowed
	Model   string `mapstructure:"model" yaml:"model"`
}

// ExtractionConfig tunes the extraction pipeline.
type ExtractionConfig struct {
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries      int     `mapstructure:"max_retries" yaml:"max_retries"`
	MinTextLength   int     `mapstructure:"min_text_length" yaml:"min_text_length"`
	BackoffBaseMS   int     `mapstructure:"backoff_base_ms" yaml:"backoff_base_ms"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP            float64 `mapstructure:"top_p" yaml:"top_p"`
	TopK            int     `mapstructure:"top_k" yaml:"top_k"`
	BatchWorkers    int     `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// Timeout returns the per-call timeout as a duration.
func (e ExtractionConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// BackoffBase returns the transport backoff base as a duration.
func (e ExtractionConfig) BackoffBase() time.Duration {
	return time.Duration(e.BackoffBaseMS) * time.Millisecond
}

// ScreeningConfig holds the decision thresholds (scores are 0-100).
type ScreeningConfig struct {
	ShortlistThreshold float64 `mapstructure:"shortlist_threshold" yaml:"shortlist_threshold"`
	RejectThreshold    float64 `mapstructure:"reject_threshold" yaml:"reject_threshold"`
}

// InboxConfig configures the directory watcher.
type InboxConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	// Defaults are registered per leaf key: viper does not merge a
	// struct-level default with a partially specified section from a file.
	defaults := DefaultConfig()
	viper.SetDefault("provider", defaults.Provider)
	viper.SetDefault("ollama.base_url", defaults.Ollama.BaseURL)
	viper.SetDefault("ollama.model", defaults.Ollama.Model)
	viper.SetDefault("ollama.embed_model", defaults.Ollama.EmbedModel)
	viper.SetDefault("openai.base_url", defaults.OpenAI.BaseURL)
	viper.SetDefault("openai.api_key", defaults.OpenAI.APIKey)
	viper.SetDefault("openai.model", defaults.OpenAI.Model)
	viper.SetDefault("extraction.timeout_seconds", defaults.Extraction.TimeoutSeconds)
	viper.SetDefault("extraction.max_retries", defaults.Extraction.MaxRetries)
	viper.SetDefault("extraction.min_text_length", defaults.Extraction.MinTextLength)
	viper.SetDefault("extraction.backoff_base_ms", defaults.Extraction.BackoffBaseMS)
	viper.SetDefault("extraction.temperature", defaults.Extraction.Temperature)
	viper.SetDefault("extraction.top_p", defaults.Extraction.TopP)
	viper.SetDefault("extraction.top_k", defaults.Extraction.TopK)
	viper.SetDefault("extraction.batch_workers", defaults.Extraction.BatchWorkers)
	viper.SetDefault("screening.shortlist_threshold", defaults.Screening.ShortlistThreshold)
	viper.SetDefault("screening.reject_threshold", defaults.Screening.RejectThreshold)
	viper.SetDefault("inbox.dir", defaults.Inbox.Dir)
	viper.SetDefault("inbox.out_dir", defaults.Inbox.OutDir)

	// Environment variables with DOCSIFT_ prefix
	viper.SetEnvPrefix("DOCSIFT")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.docsift")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ResolvedAPIKey returns the OpenAI API key with env references expanded.
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.OpenAI.APIKey)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# docsift configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
