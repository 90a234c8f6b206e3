package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// spySource は Open が呼ばれたかどうかを記録するテスト用 Source です。
type spySource struct {
	mediaType  string
	name       string
	data       []byte
	openErr    error
	openCalled bool
}

func (s *spySource) MediaType() string { return s.mediaType }
func (s *spySource) Name() string      { return s.name }

func (s *spySource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.openCalled = true
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

var errOpenFailed = errors.New("open failed")
