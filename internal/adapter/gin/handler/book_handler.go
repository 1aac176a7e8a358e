package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	libuc "library-desk/internal/usecase/library"
)

// BookListResponse is a page of catalog results with the empty-state
// message when nothing matched.
type BookListResponse struct {
	*libuc.BookSearchResponse
	Message string `json:"message,omitempty"`
}

// ListBooks handles GET /v1/books
func (h *Handler) ListBooks(c *gin.Context) {
	resp, err := h.uc.SearchBooks(c.Request.Context(), libuc.BookSearchRequest{
		Term:     c.Query("term"),
		Category: c.Query("category"),
		Page:     queryInt64(c, "page", 1),
		Limit:    queryInt64(c, "limit", libuc.DefaultPageLimit),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := BookListResponse{BookSearchResponse: resp}
	if len(resp.Books) == 0 {
		out.Message = NoBooksMessage
	}
	c.JSON(http.StatusOK, out)
}

// GetBook handles GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.uc.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book":       book,
		"borrowable": book.Borrowable(),
	})
}

// Categories handles GET /v1/books/categories
func (h *Handler) Categories(c *gin.Context) {
	resp, err := h.uc.SearchBooks(c.Request.Context(), libuc.BookSearchRequest{Limit: 1})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": resp.Categories})
}

// CreateBook handles POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req libuc.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	book, err := h.uc.AddBook(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, book)
}
