package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shouni/gemini-vehicle-kit/pkg/acquire"
	"github.com/shouni/gemini-vehicle-kit/pkg/render"
	"github.com/shouni/gemini-vehicle-kit/pkg/session"
)

const chartPath = "/chart/confidence"

type analyzeRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// controller は Cookie からセッションを解決し、必要なら新しい Cookie を発行します。
func (s *Server) controller(c *gin.Context) (*session.Controller, bool) {
	id, _ := c.Cookie(SessionCookie)
	newID, ctrl, err := s.registry.Get(c.Request.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "セッションを取得できませんでした", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		return nil, false
	}
	if newID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, newID, int(s.registry.ttl.Seconds()), "/", "", false, true)
	}
	return ctrl, true
}

func (s *Server) index(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	s.writePage(c, http.StatusOK, ctrl, "")
}

func (s *Server) writePage(c *gin.Context, code int, ctrl *session.Controller, notice string) {
	state := ctrl.State()
	page := render.Page{
		State:  state,
		Image:  ctrl.Image(),
		Notice: notice,
	}
	if render.Select(state) == render.ViewReport {
		page.ChartURL = chartPath
	}
	c.Status(code)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	if err := render.WriteHTML(c.Writer, page); err != nil {
		slog.ErrorContext(c.Request.Context(), "ページの描画に失敗しました", "error", err)
	}
}

func (s *Server) analyzeForm(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if code := statusFor(err); code == http.StatusRequestEntityTooLarge {
			s.writePage(c, code, ctrl, acquire.ErrTooLarge.Error())
			return
		}
		s.writePage(c, http.StatusBadRequest, ctrl, acquire.ErrNotAnImage.Error())
		return
	}

	gen, err := ctrl.SelectImage(c.Request.Context(), acquire.MultipartSource{Header: fh})
	if err != nil {
		s.writePage(c, statusFor(err), ctrl, acquire.UserMessage(err))
		return
	}
	slog.InfoContext(c.Request.Context(), "画像を受け付けました", "name", fh.Filename, "size", fh.Size, "generation", gen)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reset(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	ctrl.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) confidenceChart(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	state := ctrl.State()
	if render.Select(state) != render.ViewReport {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound), Message: "no vehicle analysis available"})
		return
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteConfidenceChart(c.Writer, state.Data.ConfidenceScore); err != nil {
		slog.ErrorContext(c.Request.Context(), "グラフの描画に失敗しました", "error", err)
	}
}

func (s *Server) apiState(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

func (s *Server) apiAnalyze(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request format", Message: err.Error()})
		return
	}

	gen, err := ctrl.SelectImage(c.Request.Context(), acquire.DataURISource{Content: req.Image, Type: req.MimeType})
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse{Error: http.StatusText(statusFor(err)), Message: acquire.UserMessage(err)})
		return
	}

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, gin.H{"generation": gen})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.awaitTimeout)
	defer cancel()
	state, err := ctrl.Await(ctx)
	if err != nil {
		c.JSON(http.StatusAccepted, state)
		return
	}
	c.JSON(http.StatusOK, state)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, acquire.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case acquire.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
