package library

import (
	"errors"
	"fmt"
	"strings"

	apperrors "library-desk/pkg/errors"
)

// Dataset is the full set of collections one session works over.
type Dataset struct {
	Books        []Book        `json:"books" yaml:"books"`
	Users        []User        `json:"users" yaml:"users"`
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
}

// Validate checks a book at the boundary where it enters the session.
func (b Book) Validate() error {
	switch {
	case strings.TrimSpace(b.ID) == "":
		return apperrors.NewValidationError("book.id", "must not be empty")
	case strings.TrimSpace(b.Title) == "":
		return apperrors.NewValidationError("book.title", fmt.Sprintf("book %s: must not be empty", b.ID))
	case b.TotalCopies < 0:
		return apperrors.NewValidationError("book.totalCopies", fmt.Sprintf("book %s: must not be negative", b.ID))
	case b.AvailableCopies < 0:
		return apperrors.NewValidationError("book.availableCopies", fmt.Sprintf("book %s: must not be negative", b.ID))
	case b.AvailableCopies > b.TotalCopies:
		return apperrors.NewValidationError("book.availableCopies",
			fmt.Sprintf("book %s: %d available exceeds %d total", b.ID, b.AvailableCopies, b.TotalCopies))
	}
	return nil
}

// Validate checks a user at the boundary where it enters the session.
func (u User) Validate() error {
	switch {
	case strings.TrimSpace(u.ID) == "":
		return apperrors.NewValidationError("user.id", "must not be empty")
	case strings.TrimSpace(u.Name) == "":
		return apperrors.NewValidationError("user.name", fmt.Sprintf("user %s: must not be empty", u.ID))
	case !u.Role.Valid():
		return apperrors.NewValidationError("user.role", fmt.Sprintf("user %s: unknown role %q", u.ID, u.Role))
	}
	return nil
}

// Validate checks a transaction at the boundary where it enters the session.
// Book and user references are deliberately not resolved here.
func (t Transaction) Validate() error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return apperrors.NewValidationError("transaction.id", "must not be empty")
	case t.BorrowDate.IsZero():
		return apperrors.NewValidationError("transaction.borrowDate", fmt.Sprintf("transaction %s: must be set", t.ID))
	case !t.Status.Valid():
		return apperrors.NewValidationError("transaction.status", fmt.Sprintf("transaction %s: unknown status %q", t.ID, t.Status))
	}
	return nil
}

// Normalize fills defaults that fixtures are allowed to omit.
func (d *Dataset) Normalize() {
	for i := range d.Books {
		if d.Books[i].CoverURL == "" {
			d.Books[i].CoverURL = PlaceholderCover
		}
	}
	for i := range d.Users {
		if d.Users[i].Status == "" {
			d.Users[i].Status = StatusActive
		}
	}
}

// Validate checks every record and rejects duplicate identifiers within a
// collection. All problems are reported together.
func (d *Dataset) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(d.Books))
	for _, b := range d.Books {
		if err := b.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[b.ID]; dup {
			errs = append(errs, apperrors.NewAlreadyExistsError("book", fmt.Sprintf("duplicate book id %s", b.ID)))
		}
		seen[b.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(d.Users))
	for _, u := range d.Users {
		if err := u.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[u.ID]; dup {
			errs = append(errs, apperrors.NewAlreadyExistsError("user", fmt.Sprintf("duplicate user id %s", u.ID)))
		}
		seen[u.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(d.Transactions))
	for _, t := range d.Transactions {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			errs = append(errs, apperrors.NewAlreadyExistsError("transaction", fmt.Sprintf("duplicate transaction id %s", t.ID)))
		}
		seen[t.ID] = struct{}{}
	}

	return errors.Join(errs...)
}
