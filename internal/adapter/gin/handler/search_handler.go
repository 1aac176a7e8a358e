package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"library-desk/internal/query"
	libuc "library-desk/internal/usecase/library"
)

// SearchResponse is a unified search result with the empty-state message
// when a term matched nothing.
type SearchResponse struct {
	*libuc.UnifiedSearchResponse
	Message string `json:"message,omitempty"`
}

// Search handles GET /v1/search?mode=books|users&term=
func (h *Handler) Search(c *gin.Context) {
	mode := c.DefaultQuery("mode", libuc.ModeBooks)

	resp, err := h.uc.UnifiedSearch(c.Request.Context(), libuc.UnifiedSearchRequest{
		Mode: mode,
		Term: c.Query("term"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := SearchResponse{UnifiedSearchResponse: resp}
	if resp.Total == 0 && strings.TrimSpace(resp.Term) != "" {
		if mode == libuc.ModeUsers {
			out.Message = NoUsersMessage
		} else {
			out.Message = NoBooksMessage
		}
	}
	c.JSON(http.StatusOK, out)
}

// Activity handles GET /v1/activity?limit=
func (h *Handler) Activity(c *gin.Context) {
	limit := queryInt64(c, "limit", query.ActivityFeedLimit)

	items, err := h.uc.RecentActivity(c.Request.Context(), int(limit))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": items})
}

// Dashboard handles GET /v1/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	resp, err := h.uc.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
