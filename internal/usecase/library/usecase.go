package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "library-desk/internal/domain/library"
	"library-desk/internal/query"
	apperrors "library-desk/pkg/errors"
	"library-desk/pkg/logger"
	"library-desk/pkg/metrics"
	"library-desk/pkg/security"
)

// Session owns the collections of one application session. Queries run the
// engine on a snapshot taken under the read lock; appends take the write lock.
// Nothing is ever written back to the fixture source.
type Session struct {
	mu sync.RWMutex
	ds domain.Dataset

	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

var _ Usecase = (*Session)(nil)

// Option customises a Session.
type Option func(*Session)

// WithClock sets the clock used for join dates of added users.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator sets the identifier source for added records.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New creates a session over ds. The session takes its own copy of the
// collections, so later changes to ds are not seen.
func New(ds *domain.Dataset, log *zap.Logger, opts ...Option) *Session {
	s := &Session{
		log:      log,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if ds != nil {
		s.ds = domain.Dataset{
			Books:        slices.Clone(ds.Books),
			Users:        slices.Clone(ds.Users),
			Transactions: slices.Clone(ds.Transactions),
		}
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.SetSessionRecords("books", len(s.ds.Books))
	metrics.SetSessionRecords("users", len(s.ds.Users))
	metrics.SetSessionRecords("transactions", len(s.ds.Transactions))

	return s
}

// snapshot returns the current collections. The slices are clipped so an
// append under the write lock never shows through them.
func (s *Session) snapshot() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Dataset{
		Books:        slices.Clip(s.ds.Books),
		Users:        slices.Clip(s.ds.Users),
		Transactions: slices.Clip(s.ds.Transactions),
	}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError("", strings.Join(messages, ", "))
}

// sanitizeFields runs the text sanitizer over each named field in place.
func sanitizeFields(fields map[string]*string) error {
	for name, v := range fields {
		clean, err := security.SanitizeText(*v)
		if err != nil {
			return apperrors.NewValidationError(name, err.Error())
		}
		*v = clean
	}
	return nil
}

// checkTerm rejects search terms the engine would have to shorten.
func checkTerm(term string) error {
	if err := security.CheckSearchTerm(term); err != nil {
		return apperrors.NewValidationError("term",
			fmt.Sprintf("must be at most %d characters", security.MaxSearchTermLength))
	}
	return nil
}

// pageWindow applies the default and cap to the requested page and limit.
func pageWindow(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	return page, min(limit, MaxPageLimit)
}

// SearchBooks runs a catalog query and returns one page of matches along with
// the category options for the current collection.
func (s *Session) SearchBooks(ctx context.Context, in BookSearchRequest) (*BookSearchResponse, error) {
	log := logger.WithContext(ctx, s.log)
	if err := checkTerm(in.Term); err != nil {
		log.Warn("catalog query rejected", zap.Error(err))
		return nil, err
	}
	snap := s.snapshot()

	matches := query.SearchBooks(snap.Books, query.BookCriteria{
		Term:     in.Term,
		Category: in.Category,
	})
	metrics.ObserveQuery("books", len(matches))

	page, limit := pageWindow(in.Page, in.Limit)
	books, pagination := domain.Paginate(matches, page, limit)

	log.Debug("catalog query",
		zap.String("term", in.Term),
		zap.String("category", in.Category),
		zap.Int("matches", len(matches)),
	)

	return &BookSearchResponse{
		Books:      books,
		Categories: query.Categories(snap.Books),
		Pagination: pagination,
	}, nil
}

// SearchUsers runs a directory query and returns one page of matches along
// with the role options for the current collection.
func (s *Session) SearchUsers(ctx context.Context, in UserSearchRequest) (*UserSearchResponse, error) {
	log := logger.WithContext(ctx, s.log)
	if err := checkTerm(in.Term); err != nil {
		log.Warn("directory query rejected", zap.Error(err))
		return nil, err
	}
	snap := s.snapshot()

	matches := query.SearchUsers(snap.Users, query.UserCriteria{
		Term: in.Term,
		Role: in.Role,
	})
	metrics.ObserveQuery("users", len(matches))

	page, limit := pageWindow(in.Page, in.Limit)
	users, pagination := domain.Paginate(matches, page, limit)

	log.Debug("directory query",
		zap.String("term", in.Term),
		zap.String("role", in.Role),
		zap.Int("matches", len(matches)),
	)

	return &UserSearchResponse{
		Users:      users,
		Roles:      query.Roles(snap.Users),
		Pagination: pagination,
	}, nil
}

// UnifiedSearch matches the term against books or users depending on mode.
// An unknown mode yields an empty result. A blank term matches nothing here
// and returns the activity feed instead.
func (s *Session) UnifiedSearch(ctx context.Context, in UnifiedSearchRequest) (*UnifiedSearchResponse, error) {
	log := logger.WithContext(ctx, s.log)
	if err := checkTerm(in.Term); err != nil {
		log.Warn("search rejected", zap.Error(err))
		return nil, err
	}
	snap := s.snapshot()

	resp := &UnifiedSearchResponse{Mode: in.Mode, Term: in.Term}
	blank := strings.TrimSpace(in.Term) == ""

	switch {
	case in.Mode == ModeBooks && blank:
		resp.Books = []domain.Book{}
	case in.Mode == ModeBooks:
		resp.Books = query.SearchBooks(snap.Books, query.BookCriteria{Term: in.Term})
		resp.Total = len(resp.Books)
	case in.Mode == ModeUsers && blank:
		resp.Users = []domain.User{}
	case in.Mode == ModeUsers:
		resp.Users = query.SearchUsers(snap.Users, query.UserCriteria{Term: in.Term})
		resp.Total = len(resp.Users)
	default:
		log.Debug("unknown search mode", zap.String("mode", in.Mode))
		return resp, nil
	}
	metrics.ObserveQuery("search_"+in.Mode, resp.Total)

	if blank {
		resp.Activity = activity(snap, query.ActivityFeedLimit)
	}

	return resp, nil
}

// RecentActivity returns the limit most recent transactions, newest first,
// joined with their book and user.
func (s *Session) RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	items := activity(s.snapshot(), limit)
	metrics.ObserveQuery("activity", len(items))
	return items, nil
}

// Dashboard returns the headline counts and the most recent transactions.
func (s *Session) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	snap := s.snapshot()
	stats := query.Summarize(snap.Books, snap.Users, snap.Transactions)
	metrics.ObserveQuery("dashboard", stats.TotalBooks)

	return &DashboardResponse{
		Stats: DashboardStats{
			TotalBooks:      stats.TotalBooks,
			Students:        stats.Students,
			Borrowed:        stats.Borrowed,
			Overdue:         stats.Overdue,
			AvailableCopies: stats.AvailableCopies,
		},
		Recent: activity(snap, query.DashboardRecentLimit),
	}, nil
}

// EligibleBorrowers returns the users a book may be lent to.
func (s *Session) EligibleBorrowers(ctx context.Context) ([]domain.User, error) {
	return query.EligibleBorrowers(s.snapshot().Users), nil
}

// GetBook returns the book with the given id.
func (s *Session) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	for _, b := range s.snapshot().Books {
		if b.ID == id {
			return &b, nil
		}
	}
	logger.WithContext(ctx, s.log).Debug("book not found", zap.String("id", id))
	return nil, apperrors.NewNotFoundError("book", fmt.Sprintf("book %s not found", id))
}

// GetUser returns the user with the given id.
func (s *Session) GetUser(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range s.snapshot().Users {
		if u.ID == id {
			return &u, nil
		}
	}
	logger.WithContext(ctx, s.log).Debug("user not found", zap.String("id", id))
	return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user %s not found", id))
}

// AddBook validates the request and appends a new book to the session. All
// copies start on the shelf.
func (s *Session) AddBook(ctx context.Context, in AddBookRequest) (*domain.Book, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("adding book", zap.String("title", in.Title), zap.String("author", in.Author))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if err := sanitizeFields(map[string]*string{
		"title":       &in.Title,
		"author":      &in.Author,
		"isbn":        &in.ISBN,
		"category":    &in.Category,
		"description": &in.Description,
		"coverUrl":    &in.CoverURL,
	}); err != nil {
		log.Warn("sanitize failed", zap.Error(err))
		return nil, err
	}

	book := domain.Book{
		ID:              s.newID(),
		Title:           in.Title,
		Author:          in.Author,
		ISBN:            in.ISBN,
		Category:        in.Category,
		PublishYear:     in.PublishYear,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
		Description:     in.Description,
		CoverURL:        in.CoverURL,
	}
	if book.CoverURL == "" {
		book.CoverURL = domain.PlaceholderCover
	}
	if err := book.Validate(); err != nil {
		log.Warn("book rejected", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.ds.Books = append(s.ds.Books, book)
	n := len(s.ds.Books)
	s.mu.Unlock()

	metrics.RecordAdded("books")
	metrics.SetSessionRecords("books", n)
	log.Info("book added", zap.String("id", book.ID), zap.Int("books", n))

	return &book, nil
}

// AddUser validates the request and appends a new active user joining today.
// Role defaults to student.
func (s *Session) AddUser(ctx context.Context, in AddUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("adding user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if err := sanitizeFields(map[string]*string{
		"name":       &in.Name,
		"studentId":  &in.ExternalID,
		"department": &in.Department,
		"phone":      &in.Phone,
	}); err != nil {
		log.Warn("sanitize failed", zap.Error(err))
		return nil, err
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleStudent
	}

	user := domain.User{
		ID:         s.newID(),
		Name:       in.Name,
		Email:      strings.TrimSpace(in.Email),
		ExternalID: in.ExternalID,
		Department: in.Department,
		Role:       role,
		Phone:      in.Phone,
		JoinDate:   domain.NewDate(s.now().UTC()),
		Status:     domain.StatusActive,
	}
	if err := user.Validate(); err != nil {
		log.Warn("user rejected", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.ds.Users = append(s.ds.Users, user)
	n := len(s.ds.Users)
	s.mu.Unlock()

	metrics.RecordAdded("users")
	metrics.SetSessionRecords("users", n)
	log.Info("user added", zap.String("id", user.ID), zap.String("role", string(role)))

	return &user, nil
}

// activity joins the n most recent transactions of snap with their records.
func activity(snap domain.Dataset, n int) []ActivityItem {
	recent := query.Recent(snap.Transactions, n)
	joined := query.Join(recent, snap.Books, snap.Users)

	items := make([]ActivityItem, len(joined))
	for i, a := range joined {
		items[i] = ActivityItem{
			Transaction: a.Transaction,
			Book:        a.Book,
			User:        a.User,
			BookTitle:   UnknownBook,
			UserName:    UnknownUser,
		}
		if a.Book != nil {
			items[i].BookTitle = a.Book.Title
		}
		if a.User != nil {
			items[i].UserName = a.User.Name
		}
	}
	return items
}
