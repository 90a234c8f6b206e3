package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// DefaultMaxBytes は読み込む画像サイズの既定上限です。
const DefaultMaxBytes int64 = 20 << 20

var (
	// ErrNotAnImage は宣言 MIME タイプが画像ではない場合のエラーです。メッセージはそのまま利用者に表示します。
	ErrNotAnImage = errors.New("Vui lòng chọn tệp hình ảnh.")
	// ErrTooLarge は画像が読み込み上限を超えた場合のエラーです。
	ErrTooLarge = errors.New("Tệp hình ảnh quá lớn.")
	// ErrInvalidEncoding は data URI / base64 の内容を復号できなかった場合のエラーです。
	ErrInvalidEncoding = errors.New("Dữ liệu hình ảnh không hợp lệ.")
)

func errInvalidEncoding(cause error) error {
	return fmt.Errorf("%w: %v", ErrInvalidEncoding, cause)
}

// Acquirer は Source を ImagePayload に変換するアダプターです。
type Acquirer struct {
	maxBytes int64
}

// NewAcquirer は読み込み上限を指定して Acquirer を生成します。0 以下なら既定値を使います。
func NewAcquirer(maxBytes int64) *Acquirer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Acquirer{maxBytes: maxBytes}
}

// Acquire は既定の上限で Source を読み込みます。
func Acquire(ctx context.Context, src Source) (*domain.ImagePayload, error) {
	return NewAcquirer(DefaultMaxBytes).Acquire(ctx, src)
}

// Acquire は宣言 MIME タイプを検証したうえで中身をすべてメモリに読み込みます。
// 画像以外のタイプは中身を開かずに ErrNotAnImage を返します。
func (a *Acquirer) Acquire(ctx context.Context, src Source) (*domain.ImagePayload, error) {
	if src == nil {
		return nil, fmt.Errorf("source is required")
	}

	mediaType := src.MediaType()
	if !domain.IsImageMediaType(mediaType) {
		slog.WarnContext(ctx, "画像以外のファイルが選択されました", "name", src.Name(), "media_type", mediaType)
		return nil, ErrNotAnImage
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("画像ファイルを開けませんでした: %w", err)
	}
	defer rc.Close()

	// 上限 +1 バイトまで読んで超過を検知
	data, err := io.ReadAll(io.LimitReader(rc, a.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}
	if int64(len(data)) > a.maxBytes {
		return nil, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.ImagePayload{
		Data:      data,
		MediaType: mediaType,
		Name:      src.Name(),
	}, nil
}

// IsValidationError は利用者に再選択を促すべき入力エラーかを判定します。
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotAnImage) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrInvalidEncoding)
}

// UserMessage は入力エラーの表示用メッセージを返します。
func UserMessage(err error) string {
	for _, target := range []error{ErrNotAnImage, ErrTooLarge, ErrInvalidEncoding} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
