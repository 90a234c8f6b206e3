package acquire

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// Source は宣言 MIME タイプと遅延読み込み可能な中身を持つファイル様の入力です。
type Source interface {
	MediaType() string
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource はローカルファイルを表します。宣言 MIME タイプは拡張子から決まります。
type FileSource struct {
	Path string
}

func (s FileSource) MediaType() string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(s.Path)))
	if mt == "" {
		return "application/octet-stream"
	}
	// "image/jpeg; charset=..." のようなパラメータは除去
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// MultipartSource は multipart/form-data でアップロードされたファイルを表します。
type MultipartSource struct {
	Header *multipart.FileHeader
}

func (s MultipartSource) MediaType() string {
	if s.Header == nil {
		return ""
	}
	return s.Header.Header.Get("Content-Type")
}

func (s MultipartSource) Name() string {
	if s.Header == nil {
		return ""
	}
	return s.Header.Filename
}

func (s MultipartSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s.Header == nil {
		return nil, os.ErrNotExist
	}
	return s.Header.Open()
}

// BytesSource はメモリ上のデータをそのまま入力として扱います。
type BytesSource struct {
	FileName string
	Type     string
	Data     []byte
}

func (s BytesSource) MediaType() string { return s.Type }
func (s BytesSource) Name() string      { return s.FileName }

func (s BytesSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// DataURISource は data URI または素の base64 文字列を入力として扱います。
// MIME タイプは引数で明示されたものを優先し、無ければ data URI から読み取ります。
type DataURISource struct {
	Content string
	Type    string
}

func (s DataURISource) MediaType() string {
	if t := strings.TrimSpace(s.Type); t != "" {
		return t
	}
	c := strings.TrimSpace(s.Content)
	if meta, ok := strings.CutPrefix(c, "data:"); ok {
		if idx := strings.IndexAny(meta, ";,"); idx > 0 {
			return meta[:idx]
		}
	}
	return ""
}

func (s DataURISource) Name() string { return "" }

func (s DataURISource) Open(_ context.Context) (io.ReadCloser, error) {
	raw := domain.StripDataURIPrefix(strings.TrimSpace(s.Content))
	// png/jpeg/jpg/webp 以外の data URI もヘッダーだけ外して復号し、判断は推論側に任せる
	if meta, ok := strings.CutPrefix(raw, "data:"); ok {
		if _, payload, found := strings.Cut(meta, ";base64,"); found {
			raw = payload
		}
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errInvalidEncoding(err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
