package config

import "os"

// ClassifierConfig defines configuration for the external vision API client
type ClassifierConfig struct {
	BaseURL        string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey         string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model          string `json:"model,omitempty" yaml:"model,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	MaxTokens      int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultClassifierConfig creates default classifier configuration.
// The API key falls back to the SCREENTRACK_API_KEY environment variable so
// it never has to live in a config file.
func NewDefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		BaseURL:        DefaultClassifierBaseURL,
		APIKey:         os.Getenv("SCREENTRACK_API_KEY"),
		Model:          DefaultClassifierModel,
		TimeoutSeconds: DefaultClassifierTimeoutSeconds,
		MaxTokens:      DefaultClassifierMaxTokens,
	}
}
