package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
)

// DefaultOpenAIModel は OpenAI 互換プロバイダーの既定モデルです。
const DefaultOpenAIModel = "gpt-4o-mini"

// ChatCompleter は openai.Client のうちチャット補完だけを切り出したインターフェースです。
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider は OpenAI 互換 API に json_schema 形式のレスポンスを要求するアダプターです。
type OpenAIProvider struct {
	client       ChatCompleter
	defaultModel string
}

// NewOpenAIClient は API キーとベース URL から openai.Client を生成します。
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg), nil
}

// NewOpenAIProvider は依存関係を注入して OpenAIProvider を初期化します。
func NewOpenAIProvider(client ChatCompleter, defaultModel string) (*OpenAIProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("client (ChatCompleter) is required")
	}
	if defaultModel == "" {
		defaultModel = DefaultOpenAIModel
	}
	return &OpenAIProvider{client: client, defaultModel: defaultModel}, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

// Complete は data URI の画像パートと指示文を送り、最初の候補の本文を返します。
func (o *OpenAIProvider) Complete(ctx context.Context, req analyzer.Request) (string, error) {
	dataURI := req.Image.DataURI()
	if dataURI == "" {
		return "", fmt.Errorf("画像データが空です")
	}

	schema, err := json.Marshal(analyzer.JSONSchema(req.Fields))
	if err != nil {
		return "", fmt.Errorf("スキーマのエンコードに失敗しました: %w", err)
	}

	model := req.Model
	if model == "" {
		model = o.defaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "vehicle_analysis",
				Schema: json.RawMessage(schema),
				Strict: false,
			},
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI, Detail: openai.ImageURLDetailAuto},
					},
					{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", analyzer.NewProviderFailure(openAIErrorMessage(err), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", analyzer.NewEmptyResponse()
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIErrorMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
