package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie はセッション ID を保持する Cookie 名です。
const SessionCookie = "vv_session"

// multipart ヘッダー分の余裕
const uploadOverhead = 1 << 20

// Options はサーバーの任意設定です。
type Options struct {
	MaxUploadBytes int64
	SessionTTL     time.Duration
	AwaitTimeout   time.Duration // /api/analyze?wait=true の最大待ち時間
}

// Server は解析セッションを HTTP で公開します。
type Server struct {
	registry     *Registry
	maxUpload    int64
	awaitTimeout time.Duration
	engine       *gin.Engine
}

// New は依存関係を注入して Server を初期化します。
func New(factory ControllerFactory, opts Options) (*Server, error) {
	registry, err := NewRegistry(factory, opts.SessionTTL)
	if err != nil {
		return nil, err
	}
	s := &Server{
		registry:     registry,
		maxUpload:    opts.MaxUploadBytes,
		awaitTimeout: opts.AwaitTimeout,
	}
	if s.awaitTimeout <= 0 {
		s.awaitTimeout = 2 * time.Minute
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if s.maxUpload > 0 {
		r.Use(requestSizeLimiter(s.maxUpload + uploadOverhead))
	}

	r.GET("/healthz", healthCheck)
	r.GET("/", s.index)
	r.POST("/analyze", s.analyzeForm)
	r.POST("/reset", s.reset)
	r.GET("/chart/confidence", s.confidenceChart)

	api := r.Group("/api")
	api.GET("/state", s.apiState)
	api.POST("/analyze", s.apiAnalyze)
	return r
}

// Handler は HTTP ハンドラーを返します。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Registry はセッションレジストリを返します。
func (s *Server) Registry() *Registry {
	return s.registry
}

// Close はすべてのセッションを破棄します。
func (s *Server) Close() {
	s.registry.Close()
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
