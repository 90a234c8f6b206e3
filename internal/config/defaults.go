package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultProvider       = ProviderGemini
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 20 << 20
	DefaultSessionTTL     = 30 * time.Minute
	DefaultMaxInlineBytes = 0
	DefaultJPEGQuality    = 75
	DefaultRequestTimeout = 60 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", DefaultOpenAIModel)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("server.session_ttl", DefaultSessionTTL)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("image.max_inline_bytes", DefaultMaxInlineBytes)
	v.SetDefault("image.jpeg_quality", DefaultJPEGQuality)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
}
