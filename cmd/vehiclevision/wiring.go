package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shouni/gemini-vehicle-kit/internal/config"
	"github.com/shouni/gemini-vehicle-kit/internal/logger"
	"github.com/shouni/gemini-vehicle-kit/pkg/adapters"
	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
)

// loadConfig は設定を読み込み、ロガーを初期化します。
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newProvider は設定に応じて推論プロバイダーを生成します。
func newProvider(ctx context.Context, cfg *config.Config) (analyzer.Provider, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		client, err := adapters.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		return adapters.NewOpenAIProvider(client, cfg.OpenAI.Model)
	case config.ProviderGemini:
		client, err := adapters.NewGeminiClient(ctx, cfg.Gemini.APIKey, httpClient)
		if err != nil {
			return nil, err
		}
		return adapters.NewGeminiProvider(client.Models, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}

// newAnalyzer は設定から解析クライアントを組み立てます。
func newAnalyzer(ctx context.Context, cfg *config.Config) (*analyzer.Client, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("プロバイダーの初期化に失敗しました: %w", err)
	}
	return analyzer.NewClient(provider,
		analyzer.WithModel(cfg.Model()),
		analyzer.WithInlineLimit(cfg.Image.MaxInlineBytes, cfg.Image.JPEGQuality),
	)
}
