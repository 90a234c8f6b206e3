package analyzer

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("result is not a JSON object")

// ParseResult はレスポンスのテキストを VehicleAnalysis に変換します。
// 修復や再試行はせず、1回だけ厳密に解析します。型の不一致は変換せずに拒否します。
func ParseResult(text string) (*domain.VehicleAnalysis, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, NewEmptyResponse()
	}

	if !gjson.Valid(raw) {
		return nil, NewMalformedResult(syntaxError(raw))
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, NewMalformedResult(errNotObject)
	}
	if err := resultSchema.Validate(doc.Value()); err != nil {
		return nil, NewMalformedResult(err)
	}

	var out domain.VehicleAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, NewMalformedResult(err)
	}
	return &out, nil
}

// syntaxError は構文エラーの詳細を encoding/json の文言で返します。
func syntaxError(raw string) error {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}
