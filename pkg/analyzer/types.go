package analyzer

import (
	"context"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

const (
	// DefaultPrompt は推論サービスに渡す固定の指示文です（表示言語はベトナム語）。
	DefaultPrompt = "Hãy phân tích hình ảnh này. Nếu đó là một chiếc xe, hãy cung cấp thông tin chi tiết về hãng, mẫu xe, năm sản xuất, màu sắc và các tính năng. Trả lời bằng tiếng Việt."

	// ResponseMIMEType は構造化出力として要求するレスポンス形式です。
	ResponseMIMEType = "application/json"

	DefaultJPEGQuality = 75
)

// Request は1回の解析呼び出しで組み立てる推論リクエストです。呼び出し後は保持しません。
type Request struct {
	Model  string
	Prompt string
	Image  *domain.ImagePayload
	Fields []Field
}

// Provider は外部のマルチモーダル推論サービスとの通信を抽象化するインターフェースです。
// Complete はレスポンスのテキスト部分（JSON 文字列のはず）だけを返します。
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// VehicleAnalyzer はセッション層が利用する解析の窓口です。
type VehicleAnalyzer interface {
	Analyze(ctx context.Context, payload *domain.ImagePayload) (*domain.VehicleAnalysis, error)
}
