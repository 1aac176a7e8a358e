package library

import (
	"context"

	domain "library-desk/internal/domain/library"
)

// Usecase defines the library desk operations exposed to transports.
type Usecase interface {
	SearchBooks(ctx context.Context, in BookSearchRequest) (*BookSearchResponse, error)
	SearchUsers(ctx context.Context, in UserSearchRequest) (*UserSearchResponse, error)
	UnifiedSearch(ctx context.Context, in UnifiedSearchRequest) (*UnifiedSearchResponse, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)
	Dashboard(ctx context.Context) (*DashboardResponse, error)
	EligibleBorrowers(ctx context.Context) ([]domain.User, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	AddBook(ctx context.Context, in AddBookRequest) (*domain.Book, error)
	AddUser(ctx context.Context, in AddUserRequest) (*domain.User, error)
}
