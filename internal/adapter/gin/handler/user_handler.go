package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	libuc "library-desk/internal/usecase/library"
)

// UserListResponse is a page of directory results with the empty-state
// message when nothing matched.
type UserListResponse struct {
	*libuc.UserSearchResponse
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /v1/users
func (h *Handler) ListUsers(c *gin.Context) {
	resp, err := h.uc.SearchUsers(c.Request.Context(), libuc.UserSearchRequest{
		Term:  c.Query("term"),
		Role:  c.Query("role"),
		Page:  queryInt64(c, "page", 1),
		Limit: queryInt64(c, "limit", libuc.DefaultPageLimit),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := UserListResponse{UserSearchResponse: resp}
	if len(resp.Users) == 0 {
		out.Message = NoUsersMessage
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /v1/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Roles handles GET /v1/users/roles
func (h *Handler) Roles(c *gin.Context) {
	resp, err := h.uc.SearchUsers(c.Request.Context(), libuc.UserSearchRequest{Limit: 1})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": resp.Roles})
}

// Borrowers handles GET /v1/users/borrowers
func (h *Handler) Borrowers(c *gin.Context) {
	users, err := h.uc.EligibleBorrowers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser handles POST /v1/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req libuc.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.uc.AddUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
