package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数のプレフィックスです（例: VEHICLEVISION_SERVER_ADDR）。
const EnvPrefix = "VEHICLEVISION"

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider       string        `mapstructure:"provider"`
	Gemini         GeminiConfig  `mapstructure:"gemini"`
	OpenAI         OpenAIConfig  `mapstructure:"openai"`
	Server         ServerConfig  `mapstructure:"server"`
	Log            LogConfig     `mapstructure:"log"`
	Image          ImageConfig   `mapstructure:"image"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	Mode           string        `mapstructure:"mode"` // gin のモード (debug / release / test)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ImageConfig struct {
	MaxInlineBytes int `mapstructure:"max_inline_bytes"`
	JPEGQuality    int `mapstructure:"jpeg_quality"`
}

// Load は既定値・設定ファイル・環境変数の順に重ねて設定を読み込み、検証します。
// path が空の場合は設定ファイルを読みません。
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 慣例的な API キーの環境変数も受け付ける
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Model は選択中のプロバイダーのモデル名を返します。
func (c *Config) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}
