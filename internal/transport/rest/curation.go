package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

// CurationHandler lets an operator review what the guide has learned.
type CurationHandler struct {
	curator core.Curator
}

func NewCurationHandler(curator core.Curator) *CurationHandler {
	return &CurationHandler{curator: curator}
}

func (h *CurationHandler) HandlePatterns(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.curator.Patterns())
}

func (h *CurationHandler) HandleCorrections(c *gin.Context) {
	successResponse(c, http.StatusOK, "", h.curator.Corrections())
}

// HandleForgetPattern takes the key as a query parameter, since pattern
// keys contain spaces and a colon.
func (h *CurationHandler) HandleForgetPattern(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		errorResponse(c, http.StatusBadRequest, "Pattern key is required", nil)
		return
	}

	if !h.curator.ForgetPattern(loggerContext(c), key) {
		errorResponse(c, http.StatusNotFound, "Pattern not found", nil)
		return
	}
	successResponse(c, http.StatusOK, "Pattern forgotten", gin.H{"key": key})
}

func (h *CurationHandler) HandleVerifyCorrection(c *gin.Context) {
	id := c.Param("id")

	err := h.curator.MarkVerified(loggerContext(c), id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "Correction not found", err)
		return
	case err != nil:
		log.FromCtx(loggerContext(c)).Error().Err(err).Str("correction", id).Msg("failed to verify correction")
		errorResponse(c, http.StatusInternalServerError, "Failed to verify correction", err)
		return
	}
	successResponse(c, http.StatusOK, "Correction verified", CorrectionResponse{ID: id})
}
