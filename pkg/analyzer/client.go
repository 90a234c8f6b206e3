package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/shouni/gemini-vehicle-kit/pkg/imgutil"
)

// Client は画像1枚につき推論リクエストを1回だけ送り、構造化結果を返す解析クライアントです。
// 再試行・バックオフ・タイムアウトは行いません。
type Client struct {
	provider       Provider
	model          string
	prompt         string
	maxInlineBytes int
	jpegQuality    int
}

// Option は Client の任意設定です。
type Option func(*Client)

// WithModel は使用するモデル名を指定します。空の場合はプロバイダーの既定モデルになります。
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithPrompt は指示文を差し替えます。
func WithPrompt(prompt string) Option {
	return func(c *Client) {
		if prompt != "" {
			c.prompt = prompt
		}
	}
}

// WithInlineLimit は送信前に JPEG へ再エンコードするサイズ上限を指定します。0 で無効です。
func WithInlineLimit(maxBytes, quality int) Option {
	return func(c *Client) {
		c.maxInlineBytes = maxBytes
		if quality > 0 {
			c.jpegQuality = quality
		}
	}
}

// NewClient は依存関係を注入して Client を初期化します。
func NewClient(provider Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	c := &Client{
		provider:    provider,
		prompt:      DefaultPrompt,
		jpegQuality: DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Analyze は画像を解析して VehicleAnalysis を返します。
// 失敗はすべて *AnalysisError（EmptyResponse / MalformedResult / ProviderFailure）で返します。
func (c *Client) Analyze(ctx context.Context, payload *domain.ImagePayload) (*domain.VehicleAnalysis, error) {
	if payload == nil || payload.Size() == 0 {
		return nil, fmt.Errorf("image payload is empty")
	}
	if !domain.IsAcceptedMediaType(payload.MediaType) {
		slog.WarnContext(ctx, "想定外の画像サブタイプです。そのまま送信します", "media_type", payload.MediaType)
	}

	image := payload
	if c.maxInlineBytes > 0 {
		if fitted, err := imgutil.FitInline(payload, c.maxInlineBytes, c.jpegQuality); err == nil {
			image = fitted
		} else {
			slog.WarnContext(ctx, "画像の縮小に失敗しました。元の画像で続行します", "error", err)
		}
	}

	req := Request{
		Model:  c.model,
		Prompt: c.prompt,
		Image:  image,
		Fields: ResultFields,
	}

	start := time.Now()
	slog.InfoContext(ctx, "車両解析リクエスト送信", "provider", c.provider.Name(), "model", c.model,
		"media_type", image.MediaType, "bytes", image.Size())

	text, err := c.provider.Complete(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "推論プロバイダーの呼び出しに失敗しました", "provider", c.provider.Name(), "error", err)
		return nil, toProviderFailure(err)
	}

	result, err := ParseResult(text)
	if err != nil {
		slog.ErrorContext(ctx, "解析結果の読み取りに失敗しました", "error", err, "response_bytes", len(text))
		return nil, err
	}

	slog.InfoContext(ctx, "車両解析完了",
		"is_vehicle", result.IsVehicle,
		"make", result.Make,
		"model", result.Model,
		"confidence", result.ConfidenceScore,
		"elapsed_ms", time.Since(start).Milliseconds())
	return result, nil
}

// toProviderFailure はプロバイダーのエラーを ProviderFailure に正規化します。
// アダプターが既に AnalysisError を返している場合はそのまま使います。
func toProviderFailure(err error) error {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	return NewProviderFailure(err.Error(), err)
}
