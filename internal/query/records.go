package query

import "library-desk/internal/domain/library"

// BookFields are searched by the catalog and the unified search.
var BookFields = []Field[library.Book]{
	{Name: "title", Value: func(b library.Book) string { return b.Title }},
	{Name: "author", Value: func(b library.Book) string { return b.Author }},
	{Name: "isbn", Value: func(b library.Book) string { return b.ISBN }, Verbatim: true},
	{Name: "category", Value: func(b library.Book) string { return b.Category }},
}

// UserFields are searched by the directory and the unified search.
var UserFields = []Field[library.User]{
	{Name: "name", Value: func(u library.User) string { return u.Name }},
	{Name: "email", Value: func(u library.User) string { return u.Email }},
	{Name: "externalId", Value: func(u library.User) string { return u.ExternalID }},
	{Name: "department", Value: func(u library.User) string { return u.Department }},
}

// BookCriteria drives a catalog query. The zero value matches every book.
type BookCriteria struct {
	Term     string
	Category string
}

// UserCriteria drives a directory query. The zero value matches every user.
type UserCriteria struct {
	Term string
	Role string
}

// TransactionCriteria narrows transactions by exact status, book or user.
type TransactionCriteria struct {
	Status string
	BookID string
	UserID string
}

// SearchBooks returns the books matching c, in input order.
func SearchBooks(books []library.Book, c BookCriteria) []library.Book {
	m := newMatcher(c.Term)
	return Filter(books, func(b library.Book) bool {
		return equalsFilter(c.Category, b.Category) && matchAny(m, b, BookFields)
	})
}

// SearchUsers returns the users matching c, in input order.
func SearchUsers(users []library.User, c UserCriteria) []library.User {
	m := newMatcher(c.Term)
	return Filter(users, func(u library.User) bool {
		return equalsFilter(c.Role, string(u.Role)) && matchAny(m, u, UserFields)
	})
}

// FilterTransactions returns the transactions matching c, in input order.
func FilterTransactions(txs []library.Transaction, c TransactionCriteria) []library.Transaction {
	return Filter(txs, func(t library.Transaction) bool {
		return equalsFilter(c.Status, string(t.Status)) &&
			equalsFilter(c.BookID, t.BookID) &&
			equalsFilter(c.UserID, t.UserID)
	})
}

// Categories is the category option list for a catalog: "all" then each
// distinct category.
func Categories(books []library.Book) []string {
	return Options(books, func(b library.Book) string { return b.Category })
}

// Roles is the role option list for a directory: "all" then each distinct role.
func Roles(users []library.User) []string {
	return Options(users, func(u library.User) string { return string(u.Role) })
}
