package domain

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// ImagePayload は取得済みの画像データとその宣言 MIME タイプです。
// 取得後は変更せず、新しい画像の選択またはリセットで破棄されます。
type ImagePayload struct {
	Data      []byte
	MediaType string
	Name      string // 表示・ログ用の元ファイル名（空でもよい）
}

// Size は画像データのバイト数を返します。
func (p *ImagePayload) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// DataURI は画像を自己記述的な data URI 文字列に変換します。
func (p *ImagePayload) DataURI() string {
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	return MakeDataURI(p.MediaType, base64.StdEncoding.EncodeToString(p.Data))
}

// dataURIPrefix は送信前に除去する data URI プレフィックスです。
// サブタイプは png / jpeg / jpg / webp の4つだけを対象にします。
var dataURIPrefix = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,`)

// AcceptedSubtypes は推論 API に渡す画像サブタイプの一覧です。
var AcceptedSubtypes = []string{"png", "jpeg", "jpg", "webp"}

// MakeDataURI は MIME タイプと base64 文字列から data URI を組み立てます。
func MakeDataURI(mediaType, b64 string) string {
	return "data:" + mediaType + ";base64," + b64
}

// StripDataURIPrefix は data URI のプレフィックスを取り除きます。
// 一致しないプレフィックスはエラーにせず、そのまま返します。
func StripDataURIPrefix(content string) string {
	return dataURIPrefix.ReplaceAllString(content, "")
}

// IsAcceptedMediaType は MIME タイプが受け付け対象の画像サブタイプかを判定します。
func IsAcceptedMediaType(mediaType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	sub, ok := strings.CutPrefix(mt, "image/")
	if !ok {
		return false
	}
	for _, s := range AcceptedSubtypes {
		if sub == s {
			return true
		}
	}
	return false
}

// IsImageMediaType は宣言 MIME タイプが image ファミリーかを判定します。
func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
