package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func jpegRequest() analyzer.Request {
	return analyzer.Request{
		Prompt: analyzer.DefaultPrompt,
		Image:  &domain.ImagePayload{Data: []byte("jpeg-bytes"), MediaType: "image/jpeg"},
		Fields: analyzer.ResultFields,
	}
}

func TestNewGeminiProvider(t *testing.T) {
	t.Run("modelsがnilならエラーになるのだ", func(t *testing.T) {
		p, err := NewGeminiProvider(nil, "")
		assert.Nil(t, p)
		assert.Error(t, err)
	})

	t.Run("モデル未指定なら既定モデルなのだ", func(t *testing.T) {
		p, err := NewGeminiProvider(&mockGenerator{}, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultGeminiModel, p.defaultModel)
		assert.Equal(t, "gemini", p.Name())
	})
}

func TestGeminiProvider_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("画像とプロンプトを1つのユーザーコンテンツで送るのだ", func(t *testing.T) {
		var gotModel string
		var gotContents []*genai.Content
		var gotConfig *genai.GenerateContentConfig
		mg := &mockGenerator{
			generateFunc: func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				gotModel, gotContents, gotConfig = model, contents, config
				return textResponse(`{"isVehicle":false}`), nil
			},
		}
		p, _ := NewGeminiProvider(mg, "")

		text, err := p.Complete(ctx, jpegRequest())
		require.NoError(t, err)
		assert.Equal(t, `{"isVehicle":false}`, text)
		assert.Equal(t, 1, mg.calls)
		assert.Equal(t, DefaultGeminiModel, gotModel)

		require.Len(t, gotContents, 1)
		assert.Equal(t, genai.RoleUser, gotContents[0].Role)
		require.Len(t, gotContents[0].Parts, 2)
		blob := gotContents[0].Parts[0].InlineData
		require.NotNil(t, blob)
		assert.Equal(t, "image/jpeg", blob.MIMEType)
		assert.Equal(t, []byte("jpeg-bytes"), blob.Data)
		assert.Equal(t, analyzer.DefaultPrompt, gotContents[0].Parts[1].Text)

		assert.Equal(t, "application/json", gotConfig.ResponseMIMEType)
		require.NotNil(t, gotConfig.ResponseSchema)
		assert.Equal(t, genai.TypeObject, gotConfig.ResponseSchema.Type)
	})

	t.Run("リクエストのモデル指定が優先されるのだ", func(t *testing.T) {
		var gotModel string
		mg := &mockGenerator{
			generateFunc: func(model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				gotModel = model
				return textResponse("{}"), nil
			},
		}
		p, _ := NewGeminiProvider(mg, "")
		req := jpegRequest()
		req.Model = "gemini-2.5-pro"
		_, err := p.Complete(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", gotModel)
	})

	t.Run("テキストが無いときはEmptyResponseなのだ", func(t *testing.T) {
		mg := &mockGenerator{
			generateFunc: func(string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return &genai.GenerateContentResponse{
					Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
				}, nil
			},
		}
		p, _ := NewGeminiProvider(mg, "")
		_, err := p.Complete(ctx, jpegRequest())
		assert.True(t, analyzer.IsKind(err, analyzer.KindEmptyResponse))
	})

	t.Run("APIErrorのメッセージを引き継ぐのだ", func(t *testing.T) {
		mg := &mockGenerator{
			generateFunc: func(string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, fmt.Errorf("generate: %w", genai.APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"})
			},
		}
		p, _ := NewGeminiProvider(mg, "")
		_, err := p.Complete(ctx, jpegRequest())
		require.Error(t, err)
		assert.True(t, analyzer.IsKind(err, analyzer.KindProviderFailure))
		assert.Equal(t, "quota exceeded", analyzer.UserMessage(err))
	})

	t.Run("一般のエラーは文言をそのまま使うのだ", func(t *testing.T) {
		mg := &mockGenerator{
			generateFunc: func(string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, errors.New("network unreachable")
			},
		}
		p, _ := NewGeminiProvider(mg, "")
		_, err := p.Complete(ctx, jpegRequest())
		assert.Equal(t, "network unreachable", analyzer.UserMessage(err))
	})

	t.Run("画像が無ければ送信しないのだ", func(t *testing.T) {
		mg := &mockGenerator{}
		p, _ := NewGeminiProvider(mg, "")
		req := jpegRequest()
		req.Image = nil
		_, err := p.Complete(ctx, req)
		assert.Error(t, err)
		assert.Equal(t, 0, mg.calls)
	})
}

func TestNewGeminiClient(t *testing.T) {
	t.Run("APIキーが空ならエラーなのだ", func(t *testing.T) {
		c, err := NewGeminiClient(context.Background(), "", nil)
		assert.Nil(t, c)
		assert.Error(t, err)
	})
}
