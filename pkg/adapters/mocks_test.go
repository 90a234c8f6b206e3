package adapters

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// mockGenerator は ContentGenerator のテスト用モックなのだ。
type mockGenerator struct {
	calls        int
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return nil, nil
}

// mockChatCompleter は ChatCompleter のテスト用モックなのだ。
type mockChatCompleter struct {
	calls   int
	lastReq openai.ChatCompletionRequest
	respond openai.ChatCompletionResponse
	respErr error
}

func (m *mockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.calls++
	m.lastReq = req
	return m.respond, m.respErr
}

// textResponse は1候補・1テキストパートのレスポンスを組み立てるのだ。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
}
