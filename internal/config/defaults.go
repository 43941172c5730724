package config

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: "ollama",
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			Model:      "llama3.1:8b",
			EmbedModel: "nomic-embed-text",
		},
		OpenAI: OpenAIConfig{
			APIKey: "${OPENAI_API_KEY}",
			Model:  "gpt-4o-mini",
		},
		Extraction: ExtractionConfig{
			TimeoutSeconds: 120,
			MaxRetries:     3,
			MinTextLength:  50,
			BackoffBaseMS:  1000,
			Temperature:    0.1,
			TopP:           0.9,
			TopK:           40,
			BatchWorkers:   2,
		},
		Screening: ScreeningConfig{
			ShortlistThreshold: 69,
			RejectThreshold:    50,
		},
		Inbox: InboxConfig{
			Dir:    "inbox",
			OutDir: "records",
		},
	}
}
