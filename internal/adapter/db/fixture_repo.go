// Package db reads fixture data from a relational database through gorm.
// The session never writes back; Seed exists to build a fixture database.
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-desk/internal/adapter/fixture"
	"library-desk/internal/domain/library"
)

// BookSchema represents the database schema for the books table.
type BookSchema struct {
	Seq             int64  `gorm:"primaryKey;autoIncrement"` // Seq preserves fixture order
	ID              string `gorm:"column:book_id;not null;uniqueIndex"`
	Title           string `gorm:"not null"`
	Author          string
	ISBN            string `gorm:"column:isbn"`
	Category        string `gorm:"index"`
	PublishYear     int
	TotalCopies     int
	AvailableCopies int
	Description     string
	CoverURL        string
}

// TableName specifies the table name for the BookSchema model.
func (BookSchema) TableName() string {
	return "books"
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	Seq        int64  `gorm:"primaryKey;autoIncrement"`
	ID         string `gorm:"column:user_id;not null;uniqueIndex"`
	Name       string `gorm:"not null"`
	Email      string
	ExternalID string `gorm:"column:student_id"`
	Department string
	Role       string `gorm:"index"`
	Phone      string
	JoinDate   string // YYYY-MM-DD
	Status     string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// TransactionSchema represents the database schema for the transactions table.
type TransactionSchema struct {
	Seq        int64  `gorm:"primaryKey;autoIncrement"`
	ID         string `gorm:"column:transaction_id;not null;uniqueIndex"`
	BookID     string `gorm:"index"`
	UserID     string `gorm:"index"`
	BorrowDate string `gorm:"not null"`
	DueDate    string
	ReturnDate string
	Status     string
}

// TableName specifies the table name for the TransactionSchema model.
func (TransactionSchema) TableName() string {
	return "transactions"
}

// FixtureRepo loads a dataset from the books, users and transactions tables.
type FixtureRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ fixture.Source = (*FixtureRepo)(nil)

// NewFixtureRepo creates a new instance of FixtureRepo.
func NewFixtureRepo(db *gorm.DB, log *zap.Logger) *FixtureRepo {
	return &FixtureRepo{db: db, log: log}
}

// Migrate creates the fixture tables if they do not exist.
func (r *FixtureRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&BookSchema{}, &UserSchema{}, &TransactionSchema{}); err != nil {
		return fmt.Errorf("failed to migrate fixture tables: %w", err)
	}
	return nil
}

// Load reads every row of the three tables in insertion order and returns the
// validated dataset. It implements fixture.Source.
func (r *FixtureRepo) Load(ctx context.Context) (*library.Dataset, error) {
	var (
		books []BookSchema
		users []UserSchema
		txs   []TransactionSchema
	)

	tx := r.db.WithContext(ctx)
	if err := tx.Order("seq").Find(&books).Error; err != nil {
		r.log.Error("failed to read books", zap.Error(err))
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	if err := tx.Order("seq").Find(&users).Error; err != nil {
		r.log.Error("failed to read users", zap.Error(err))
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	if err := tx.Order("seq").Find(&txs).Error; err != nil {
		r.log.Error("failed to read transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	ds := &library.Dataset{
		Books:        make([]library.Book, 0, len(books)),
		Users:        make([]library.User, 0, len(users)),
		Transactions: make([]library.Transaction, 0, len(txs)),
	}
	for _, b := range books {
		ds.Books = append(ds.Books, b.toDomain())
	}
	for _, u := range users {
		user, err := u.toDomain()
		if err != nil {
			return nil, err
		}
		ds.Users = append(ds.Users, user)
	}
	for _, t := range txs {
		txn, err := t.toDomain()
		if err != nil {
			return nil, err
		}
		ds.Transactions = append(ds.Transactions, txn)
	}

	r.log.Info("fixture dataset read from database",
		zap.Int("books", len(ds.Books)),
		zap.Int("users", len(ds.Users)),
		zap.Int("transactions", len(ds.Transactions)),
	)

	return fixture.Prepare(ds)
}

// Seed replaces the contents of the fixture tables with ds in one transaction.
func (r *FixtureRepo) Seed(ctx context.Context, ds *library.Dataset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&TransactionSchema{}, &UserSchema{}, &BookSchema{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}

		books := make([]BookSchema, 0, len(ds.Books))
		for _, b := range ds.Books {
			books = append(books, bookFromDomain(b))
		}
		users := make([]UserSchema, 0, len(ds.Users))
		for _, u := range ds.Users {
			users = append(users, userFromDomain(u))
		}
		txs := make([]TransactionSchema, 0, len(ds.Transactions))
		for _, t := range ds.Transactions {
			txs = append(txs, transactionFromDomain(t))
		}

		if len(books) > 0 {
			if err := tx.CreateInBatches(&books, 100).Error; err != nil {
				return err
			}
		}
		if len(users) > 0 {
			if err := tx.CreateInBatches(&users, 100).Error; err != nil {
				return err
			}
		}
		if len(txs) > 0 {
			if err := tx.CreateInBatches(&txs, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to seed fixture tables", zap.Error(err))
		return fmt.Errorf("failed to seed fixture tables: %w", err)
	}

	r.log.Info("fixture tables seeded",
		zap.Int("books", len(ds.Books)),
		zap.Int("users", len(ds.Users)),
		zap.Int("transactions", len(ds.Transactions)),
	)
	return nil
}

func (b BookSchema) toDomain() library.Book {
	return library.Book{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublishYear:     b.PublishYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CoverURL:        b.CoverURL,
	}
}

func bookFromDomain(b library.Book) BookSchema {
	return BookSchema{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublishYear:     b.PublishYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CoverURL:        b.CoverURL,
	}
}

func (u UserSchema) toDomain() (library.User, error) {
	joined, err := parseOptionalDate(u.JoinDate)
	if err != nil {
		return library.User{}, fmt.Errorf("user %s join date: %w", u.ID, err)
	}
	return library.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		ExternalID: u.ExternalID,
		Department: u.Department,
		Role:       library.Role(u.Role),
		Phone:      u.Phone,
		JoinDate:   joined,
		Status:     library.UserStatus(u.Status),
	}, nil
}

func userFromDomain(u library.User) UserSchema {
	return UserSchema{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		ExternalID: u.ExternalID,
		Department: u.Department,
		Role:       string(u.Role),
		Phone:      u.Phone,
		JoinDate:   u.JoinDate.String(),
		Status:     string(u.Status),
	}
}

func (t TransactionSchema) toDomain() (library.Transaction, error) {
	borrowed, err := library.ParseDate(t.BorrowDate)
	if err != nil {
		return library.Transaction{}, fmt.Errorf("transaction %s borrow date: %w", t.ID, err)
	}
	out := library.Transaction{
		ID:         t.ID,
		BookID:     t.BookID,
		UserID:     t.UserID,
		BorrowDate: borrowed,
		Status:     library.TransactionStatus(t.Status),
	}
	if out.DueDate, err = parseDatePtr(t.DueDate); err != nil {
		return library.Transaction{}, fmt.Errorf("transaction %s due date: %w", t.ID, err)
	}
	if out.ReturnDate, err = parseDatePtr(t.ReturnDate); err != nil {
		return library.Transaction{}, fmt.Errorf("transaction %s return date: %w", t.ID, err)
	}
	return out, nil
}

func transactionFromDomain(t library.Transaction) TransactionSchema {
	out := TransactionSchema{
		ID:         t.ID,
		BookID:     t.BookID,
		UserID:     t.UserID,
		BorrowDate: t.BorrowDate.String(),
		Status:     string(t.Status),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.String()
	}
	if t.ReturnDate != nil {
		out.ReturnDate = t.ReturnDate.String()
	}
	return out
}

func parseOptionalDate(s string) (library.Date, error) {
	if s == "" {
		return library.Date{}, nil
	}
	return library.ParseDate(s)
}

func parseDatePtr(s string) (*library.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := library.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
