package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const maxMessageLength = 2000

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	UserID    string `json:"user_id"`
}

type CorrectionResponse struct {
	ID string `json:"id"`
}

type Handler struct {
	assistant core.Assistant
	timeout   time.Duration
}

func NewHandler(assistant core.Assistant, timeout time.Duration) *Handler {
	return &Handler{
		assistant: assistant,
		timeout:   timeout,
	}
}

// HandleChat answers one message. Pipeline failures are still a 200 with
// path "failure", since the answer is the apology the user should see.
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		errorResponse(c, http.StatusBadRequest, "Message cannot be empty", nil)
		return
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		errorResponse(c, http.StatusBadRequest, "Message too long (max 2000 characters)", nil)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp := h.assistant.ProcessMessage(ctx, message, req.SessionID, req.UserID)
	successResponse(c, http.StatusOK, "Message processed", resp)
}

func (h *Handler) HandleCorrection(c *gin.Context) {
	var req core.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.assistant.RegisterCorrection(ctx, req)
	switch {
	case errors.Is(err, core.ErrMalformedCorrection):
		errorResponse(c, http.StatusBadRequest, "Correction rejected", err)
		return
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Str("session", req.SessionID).Msg("failed to register correction")
		errorResponse(c, http.StatusInternalServerError, "Failed to register correction", err)
		return
	}

	successResponse(c, http.StatusCreated, "Correction registered", CorrectionResponse{ID: id})
}

func (h *Handler) HandleCacheStats(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.assistant.CacheStats())
}

func (h *Handler) HandleLearningStats(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.assistant.LearningStats())
}

func (h *Handler) HandleFetchUsage(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.assistant.FetchUsage())
}

func (h *Handler) HandleHealth(c *gin.Context) {
	successResponse(c, http.StatusOK, "ok", gin.H{
		"name":    core.GuataName,
		"version": core.GuataVersion,
	})
}

// requestContext bounds a pipeline call by the configured timeout.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := loggerContext(c)
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// loggerContext is the request context carrying the server logger.
func loggerContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if l, ok := c.Get(loggerKey); ok {
		if lc, ok := l.(context.Context); ok {
			ctx = log.FromCtx(lc).WithContext(ctx)
		}
	}
	return ctx
}
