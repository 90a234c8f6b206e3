package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
	"google.golang.org/genai"
)

// DefaultGeminiModel は Gemini プロバイダーの既定モデルです。
const DefaultGeminiModel = "gemini-2.5-flash"

// ContentGenerator は genai.Models のうち構造化出力で使うメソッドだけを切り出したインターフェースです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider は Gemini API に JSON スキーマ付きのリクエストを1回送るアダプターです。
type GeminiProvider struct {
	models       ContentGenerator
	defaultModel string
}

// NewGeminiClient は API キーから genai.Client を生成します。
// httpClient が nil の場合は SDK の既定クライアントを使います。
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// NewGeminiProvider は依存関係を注入して GeminiProvider を初期化します。
// 通常は genai.Client の Models を渡します。
func NewGeminiProvider(models ContentGenerator, defaultModel string) (*GeminiProvider, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if defaultModel == "" {
		defaultModel = DefaultGeminiModel
	}
	return &GeminiProvider{models: models, defaultModel: defaultModel}, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Complete は画像と指示文を1つのユーザーコンテンツとして送り、レスポンスのテキストを返します。
func (g *GeminiProvider) Complete(ctx context.Context, req analyzer.Request) (string, error) {
	imgPart := ToPart(req.Image)
	if imgPart == nil {
		return "", fmt.Errorf("画像パーツを作成できませんでした")
	}
	parts := []*genai.Part{imgPart, genai.NewPartFromText(req.Prompt)}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: analyzer.ResponseMIMEType,
		ResponseSchema:   ToGenaiSchema(req.Fields),
	}

	resp, err := g.models.GenerateContent(ctx, model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		return "", analyzer.NewProviderFailure(geminiErrorMessage(err), err)
	}
	if resp == nil {
		return "", analyzer.NewEmptyResponse()
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 {
			slog.WarnContext(ctx, "Geminiの応答にテキストがありません", "finish_reason", resp.Candidates[0].FinishReason)
		}
		return "", analyzer.NewEmptyResponse()
	}
	return text, nil
}

// geminiErrorMessage は APIError であればサーバーのメッセージを取り出します。
func geminiErrorMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Message != "" {
		return apiErrPtr.Message
	}
	return err.Error()
}
