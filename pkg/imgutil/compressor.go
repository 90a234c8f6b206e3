package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"

	_ "golang.org/x/image/webp"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG, WebP）をJPEG形式に再エンコードします。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FitInline は maxBytes を超えるペイロードを JPEG に再エンコードした新しいペイロードを返します。
// maxBytes が 0 以下、または上限以内の場合は元のペイロードをそのまま返します。
// 再エンコードしても小さくならない場合も元のペイロードを返します。
func FitInline(p *domain.ImagePayload, maxBytes, quality int) (*domain.ImagePayload, error) {
	if p == nil {
		return nil, fmt.Errorf("payload is nil")
	}
	if maxBytes <= 0 || p.Size() <= maxBytes {
		return p, nil
	}

	compressed, err := CompressToJPEG(p.Data, quality)
	if err != nil {
		return nil, fmt.Errorf("画像の再エンコードに失敗しました: %w", err)
	}
	if len(compressed) >= p.Size() {
		return p, nil
	}

	return &domain.ImagePayload{
		Data:      compressed,
		MediaType: "image/jpeg",
		Name:      p.Name,
	}, nil
}
