package query

import (
	"slices"

	"library-desk/internal/domain/library"
)

const (
	// DashboardRecentLimit is how many transactions the dashboard shows.
	DashboardRecentLimit = 5
	// ActivityFeedLimit is how many transactions the activity feed shows.
	ActivityFeedLimit = 8
)

// Recent returns the n most recently borrowed transactions, newest first.
// Equal borrow dates keep their input order; callers should not depend on it.
func Recent(txs []library.Transaction, n int) []library.Transaction {
	if n <= 0 || len(txs) == 0 {
		return []library.Transaction{}
	}
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b library.Transaction) int {
		return b.BorrowDate.Compare(a.BorrowDate)
	})
	return out[:min(n, len(out))]
}

// Activity is a transaction joined with its book and user.
// Book or User is nil when the reference dangles.
type Activity struct {
	Transaction library.Transaction
	Book        *library.Book
	User        *library.User
}

// Join resolves each transaction's book and user by identifier. Joined
// records are copies; the input collections are not referenced.
func Join(txs []library.Transaction, books []library.Book, users []library.User) []Activity {
	bookByID := make(map[string]int, len(books))
	for i, b := range books {
		if _, ok := bookByID[b.ID]; !ok {
			bookByID[b.ID] = i
		}
	}
	userByID := make(map[string]int, len(users))
	for i, u := range users {
		if _, ok := userByID[u.ID]; !ok {
			userByID[u.ID] = i
		}
	}

	out := make([]Activity, len(txs))
	for i, t := range txs {
		out[i].Transaction = t
		if j, ok := bookByID[t.BookID]; ok {
			b := books[j]
			out[i].Book = &b
		}
		if j, ok := userByID[t.UserID]; ok {
			u := users[j]
			out[i].User = &u
		}
	}
	return out
}

// Stats are the dashboard headline counts.
type Stats struct {
	TotalBooks      int
	Students        int
	Borrowed        int
	Overdue         int
	AvailableCopies int
}

// Summarize computes dashboard counts over the given collections.
func Summarize(books []library.Book, users []library.User, txs []library.Transaction) Stats {
	s := Stats{
		TotalBooks: len(books),
		Students:   len(SearchUsers(users, UserCriteria{Role: string(library.RoleStudent)})),
		Borrowed:   len(FilterTransactions(txs, TransactionCriteria{Status: string(library.TransactionBorrowed)})),
		Overdue:    len(FilterTransactions(txs, TransactionCriteria{Status: string(library.TransactionOverdue)})),
	}
	for _, b := range books {
		s.AvailableCopies += b.AvailableCopies
	}
	return s
}

// EligibleBorrowers are the users a book may be lent to: students only.
func EligibleBorrowers(users []library.User) []library.User {
	return SearchUsers(users, UserCriteria{Role: string(library.RoleStudent)})
}
