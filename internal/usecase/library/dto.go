package library

import domain "library-desk/internal/domain/library"

const (
	// DefaultPageLimit is the page size used when none is requested.
	DefaultPageLimit int64 = 50
	// MaxPageLimit caps the requested page size.
	MaxPageLimit int64 = 100
)

// Unified search modes.
const (
	ModeBooks = "books"
	ModeUsers = "users"
)

// Placeholders rendered for transactions whose book or user is missing.
const (
	UnknownBook = "Unknown book"
	UnknownUser = "Unknown user"
)

// BookSearchRequest represents a catalog query.
type BookSearchRequest struct {
	Term     string
	Category string
	Page     int64
	Limit    int64
}

// BookSearchResponse represents one page of catalog results.
type BookSearchResponse struct {
	Books      []domain.Book      `json:"books"`
	Categories []string           `json:"categories"`
	Pagination *domain.Pagination `json:"pagination"`
}

// UserSearchRequest represents a directory query.
type UserSearchRequest struct {
	Term  string
	Role  string
	Page  int64
	Limit int64
}

// UserSearchResponse represents one page of directory results.
type UserSearchResponse struct {
	Users      []domain.User      `json:"users"`
	Roles      []string           `json:"roles"`
	Pagination *domain.Pagination `json:"pagination"`
}

// UnifiedSearchRequest represents a keyword search over books or users.
type UnifiedSearchRequest struct {
	Mode string
	Term string
}

// UnifiedSearchResponse holds the matches for the requested mode. The list
// for that mode is always present, empty when nothing matched; the other is
// nil and left out. Activity is only filled when the term is blank.
type UnifiedSearchResponse struct {
	Mode     string         `json:"mode"`
	Term     string         `json:"term"`
	Books    []domain.Book  `json:"books,omitzero"`
	Users    []domain.User  `json:"users,omitzero"`
	Total    int            `json:"total"`
	Activity []ActivityItem `json:"activity,omitempty"`
}

// ActivityItem is a transaction with its book and user resolved.
// Book and User are nil when the reference dangles; the title and name then
// carry the placeholders.
type ActivityItem struct {
	Transaction domain.Transaction `json:"transaction"`
	Book        *domain.Book       `json:"book,omitempty"`
	User        *domain.User       `json:"user,omitempty"`
	BookTitle   string             `json:"bookTitle"`
	UserName    string             `json:"userName"`
}

// DashboardStats are the dashboard headline counts.
type DashboardStats struct {
	TotalBooks      int `json:"totalBooks"`
	Students        int `json:"students"`
	Borrowed        int `json:"borrowed"`
	Overdue         int `json:"overdue"`
	AvailableCopies int `json:"availableCopies"`
}

// DashboardResponse represents the dashboard view.
type DashboardResponse struct {
	Stats  DashboardStats `json:"stats"`
	Recent []ActivityItem `json:"recent"`
}

// AddBookRequest represents the payload for adding a book to the session.
type AddBookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Author      string `json:"author" validate:"required,max=200"`
	ISBN        string `json:"isbn" validate:"omitempty,max=32"`
	Category    string `json:"category" validate:"required,max=100"`
	PublishYear int    `json:"publishYear" validate:"omitempty,min=0,max=9999"`
	TotalCopies int    `json:"totalCopies" validate:"min=1,max=10000"`
	Description string `json:"description" validate:"omitempty,max=500"`
	CoverURL    string `json:"coverUrl" validate:"omitempty,max=500"`
}

// AddUserRequest represents the payload for adding a user to the session.
type AddUserRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	ExternalID string `json:"studentId" validate:"required,max=50"`
	Department string `json:"department" validate:"required,max=100"`
	Role       string `json:"role" validate:"omitempty,oneof=student librarian"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
}
