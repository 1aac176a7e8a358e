package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	libuc "library-desk/internal/usecase/library"
	apperrors "library-desk/pkg/errors"
	"library-desk/pkg/logger"
)

// Empty-state messages returned alongside empty result lists.
const (
	NoBooksMessage = "No books found"
	NoUsersMessage = "No users found"
)

// Handler serves the library desk HTTP API.
type Handler struct {
	uc  libuc.Usecase
	log *zap.Logger
}

// New creates a new Handler instance
func New(uc libuc.Usecase, log *zap.Logger) *Handler {
	return &Handler{
		uc:  uc,
		log: log,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// handleError converts usecase errors to HTTP responses using the status
// carried by the error type.
func (h *Handler) handleError(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)
	log := logger.WithContext(c.Request.Context(), h.log)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		c.JSON(status, ErrorResponse{
			Error:   apperrors.Code(err),
			Message: "An internal error occurred",
		})
		return
	}

	log.Warn("request rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, ErrorResponse{
		Error:   apperrors.Code(err),
		Message: err.Error(),
	})
}

// bindError reports a malformed request body.
func (h *Handler) bindError(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_body",
		Message: err.Error(),
	})
}

// queryInt64 parses an integer query parameter, returning def when it is
// absent or malformed.
func queryInt64(c *gin.Context, key string, def int64) int64 {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "library-desk",
	})
}
