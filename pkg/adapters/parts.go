package adapters

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"google.golang.org/genai"
)

// ToPart は画像ペイロードを genai.Part (InlineData) に変換します。
// 宣言 MIME タイプが画像でない場合は内容から推定し、それでも画像でなければ nil を返します。
func ToPart(p *domain.ImagePayload) *genai.Part {
	if p == nil || len(p.Data) == 0 {
		return nil
	}
	mimeType := p.MediaType
	if !domain.IsImageMediaType(mimeType) {
		mimeType = http.DetectContentType(p.Data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "media_type", p.MediaType, "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     p.Data,
		},
	}
}

// ToGenaiSchema はフィールド宣言を Gemini の構造化出力スキーマに変換します。
func ToGenaiSchema(fields []analyzer.Field) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = fieldToGenai(f)
		order = append(order, f.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: order,
		Required:         analyzer.RequiredNames(fields),
	}
}

func fieldToGenai(f analyzer.Field) *genai.Schema {
	s := &genai.Schema{
		Type:        genaiType(f.Type),
		Description: f.Description,
	}
	switch f.Type {
	case analyzer.TypeArray:
		s.Items = &genai.Schema{Type: genaiType(f.Items)}
	case analyzer.TypeObject:
		s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		for _, child := range f.Properties {
			s.Properties[child.Name] = fieldToGenai(child)
		}
		s.Required = analyzer.RequiredNames(f.Properties)
	}
	return s
}

func genaiType(t analyzer.FieldType) genai.Type {
	switch t {
	case analyzer.TypeString:
		return genai.TypeString
	case analyzer.TypeBoolean:
		return genai.TypeBoolean
	case analyzer.TypeNumber:
		return genai.TypeNumber
	case analyzer.TypeArray:
		return genai.TypeArray
	case analyzer.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
