package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/shouni/gemini-vehicle-kit/pkg/render"
	"github.com/shouni/gemini-vehicle-kit/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

func camry(context.Context, *domain.ImagePayload) (*domain.VehicleAnalysis, error) {
	return &domain.VehicleAnalysis{
		IsVehicle: true, Make: "Toyota", Model: "Camry", YearRange: "2020-2024",
		Type: "Sedan", Description: "Sedan.", ConfidenceScore: 92,
	}, nil
}

func newTestServer(t *testing.T, fa *fakeAnalyzer) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := New(func(ctx context.Context) (*session.Controller, error) {
		return session.NewController(fa)
	}, Options{MaxUploadBytes: 1 << 20, SessionTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func serve(srv *Server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie was not issued")
	return nil
}

func waitSession(t *testing.T, srv *Server, cookie *http.Cookie) *session.Controller {
	t.Helper()
	_, ctrl, err := srv.Registry().Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	ctrl.Wait()
	return ctrl
}

func multipartRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, target string, v any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{})
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{})
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), render.HeroTitle)
	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)

	t.Run("同じCookieなら同じセッション", func(t *testing.T) {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, 1, srv.Registry().Len())
	})
}

func TestAnalyzeForm(t *testing.T) {
	t.Run("画像をアップロードするとレポートが表示される", func(t *testing.T) {
		fa := &fakeAnalyzer{analyzeFunc: camry}
		srv := newTestServer(t, fa)

		rec := serve(srv, multipartRequest(t, "car.png", "image/png", pngBytes), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		cookie := sessionCookie(t, rec)

		waitSession(t, srv, cookie)
		page := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
		assert.Contains(t, page.Body.String(), "Camry")
		assert.Contains(t, page.Body.String(), render.ColorHigh)
		assert.Contains(t, page.Body.String(), chartPath)
		assert.Equal(t, 1, fa.callCount())
	})

	t.Run("画像以外は400で通知しリクエストを送らない", func(t *testing.T) {
		fa := &fakeAnalyzer{analyzeFunc: camry}
		srv := newTestServer(t, fa)

		rec := serve(srv, multipartRequest(t, "report.pdf", "application/pdf", []byte("%PDF-1.4")), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Vui lòng chọn tệp hình ảnh.")
		assert.Equal(t, 0, fa.callCount())

		cookie := sessionCookie(t, rec)
		state := serve(srv, httptest.NewRequest(http.MethodGet, "/api/state", nil), cookie)
		assert.Contains(t, state.Body.String(), `"status":"idle"`)
	})

	t.Run("ファイルが無ければ400", func(t *testing.T) {
		srv := newTestServer(t, &fakeAnalyzer{})
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		rec := serve(srv, req, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAPIAnalyze(t *testing.T) {
	dataURI := domain.MakeDataURI("image/png", base64.StdEncoding.EncodeToString(pngBytes))

	t.Run("wait=trueなら確定した状態を返す", func(t *testing.T) {
		srv := newTestServer(t, &fakeAnalyzer{analyzeFunc: camry})
		rec := serve(srv, jsonRequest(t, "/api/analyze?wait=true", map[string]string{"image": dataURI}), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var state domain.AnalysisState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, domain.StatusSuccess, state.Status)
		assert.Equal(t, "Toyota", state.Data.Make)
		assert.Equal(t, uint64(1), state.Generation)
	})

	t.Run("通常は202で世代番号を返す", func(t *testing.T) {
		srv := newTestServer(t, &fakeAnalyzer{analyzeFunc: camry})
		raw := base64.StdEncoding.EncodeToString(pngBytes)
		rec := serve(srv, jsonRequest(t, "/api/analyze", map[string]string{"image": raw, "mimeType": "image/png"}), nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"generation":1}`, rec.Body.String())

		ctrl := waitSession(t, srv, sessionCookie(t, rec))
		assert.Equal(t, domain.StatusSuccess, ctrl.State().Status)
	})

	t.Run("画像以外のMIMEタイプは400", func(t *testing.T) {
		fa := &fakeAnalyzer{}
		srv := newTestServer(t, fa)
		rec := serve(srv, jsonRequest(t, "/api/analyze", map[string]string{"image": "JVBERi0=", "mimeType": "application/pdf"}), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Vui lòng chọn tệp hình ảnh.")
		assert.Equal(t, 0, fa.callCount())
	})

	t.Run("base64が壊れていれば400", func(t *testing.T) {
		srv := newTestServer(t, &fakeAnalyzer{})
		rec := serve(srv, jsonRequest(t, "/api/analyze", map[string]string{"image": "data:image/png;base64,!!!", "mimeType": "image/png"}), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("imageが無ければ400", func(t *testing.T) {
		srv := newTestServer(t, &fakeAnalyzer{})
		rec := serve(srv, jsonRequest(t, "/api/analyze", map[string]string{}), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResetAndChart(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{analyzeFunc: camry})
	dataURI := domain.MakeDataURI("image/png", base64.StdEncoding.EncodeToString(pngBytes))

	first := serve(srv, httptest.NewRequest(http.MethodGet, "/chart/confidence", nil), nil)
	assert.Equal(t, http.StatusNotFound, first.Code)
	cookie := sessionCookie(t, first)

	rec := serve(srv, jsonRequest(t, "/api/analyze?wait=true", map[string]string{"image": dataURI}), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	chart := serve(srv, httptest.NewRequest(http.MethodGet, "/chart/confidence", nil), cookie)
	assert.Equal(t, http.StatusOK, chart.Code)
	assert.Contains(t, chart.Body.String(), render.ColorHigh)

	reset := serve(srv, httptest.NewRequest(http.MethodPost, "/reset", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, reset.Code)

	state := serve(srv, httptest.NewRequest(http.MethodGet, "/api/state", nil), cookie)
	assert.Contains(t, state.Body.String(), `"status":"idle"`)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{analyzeFunc: camry})
	dataURI := domain.MakeDataURI("image/png", base64.StdEncoding.EncodeToString(pngBytes))

	a := serve(srv, jsonRequest(t, "/api/analyze?wait=true", map[string]string{"image": dataURI}), nil)
	require.Equal(t, http.StatusOK, a.Code)

	b := serve(srv, httptest.NewRequest(http.MethodGet, "/api/state", nil), nil)
	assert.Contains(t, b.Body.String(), `"status":"idle"`)
	assert.NotEqual(t, sessionCookie(t, a).Value, sessionCookie(t, b).Value)
	assert.Equal(t, 2, srv.Registry().Len())
}
