package config

import (
	"errors"
	"fmt"

	"github.com/shouni/gemini-vehicle-kit/internal/logger"
)

// ErrMissingAPIKey は選択中のプロバイダーの API キーが設定されていない場合のエラーです。
var ErrMissingAPIKey = errors.New("api key is not configured")

// Validate は設定値の整合性を検証します。
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: set GEMINI_API_KEY (or API_KEY)", ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Image.MaxInlineBytes < 0 {
		return fmt.Errorf("image.max_inline_bytes must not be negative")
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		return fmt.Errorf("image.jpeg_quality must be between 1 and 100")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}
