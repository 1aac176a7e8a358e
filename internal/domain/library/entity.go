package library

// Role is the directory role of a library user.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLibrarian
}

// UserStatus is the account state of a user. Only "active" is named; fixtures
// may carry other values and they are kept verbatim.
type UserStatus string

const StatusActive UserStatus = "active"

// TransactionStatus is the circulation state recorded on a transaction.
type TransactionStatus string

const (
	TransactionBorrowed TransactionStatus = "borrowed"
	TransactionReturned TransactionStatus = "returned"
	TransactionOverdue  TransactionStatus = "overdue"
)

// Valid reports whether s is one of the known transaction states.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionBorrowed, TransactionReturned, TransactionOverdue:
		return true
	}
	return false
}

// PlaceholderCover is the cover URL given to books added without one.
const PlaceholderCover = "/placeholder.svg"

// Book represents a catalog entry and its copy availability.
type Book struct {
	ID              string `json:"id" yaml:"id"`                           // ID is the unique identifier for the book
	Title           string `json:"title" yaml:"title"`                     // Title is the display title
	Author          string `json:"author" yaml:"author"`                   // Author is the credited author
	ISBN            string `json:"isbn" yaml:"isbn"`                       // ISBN is kept verbatim, no checksum validation
	Category        string `json:"category" yaml:"category"`               // Category is a free-text label
	PublishYear     int    `json:"publishYear" yaml:"publishYear"`         // PublishYear is the year of publication
	TotalCopies     int    `json:"totalCopies" yaml:"totalCopies"`         // TotalCopies owned by the library
	AvailableCopies int    `json:"availableCopies" yaml:"availableCopies"` // AvailableCopies on the shelf, never above TotalCopies
	Description     string `json:"description" yaml:"description"`
	CoverURL        string `json:"coverUrl,omitempty" yaml:"coverUrl,omitempty"`
}

// Borrowable reports whether at least one copy is on the shelf.
func (b Book) Borrowable() bool {
	return b.AvailableCopies > 0
}

// User represents a library patron or staff member.
type User struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	ExternalID string     `json:"studentId" yaml:"studentId"` // student or employee number
	Department string     `json:"department" yaml:"department"`
	Role       Role       `json:"role" yaml:"role"`
	Phone      string     `json:"phone" yaml:"phone"`
	JoinDate   Date       `json:"joinDate" yaml:"joinDate"`
	Status     UserStatus `json:"status" yaml:"status"`
}

// Transaction records one borrow of a book by a user.
// BookID and UserID are not checked against the other collections.
type Transaction struct {
	ID         string            `json:"id" yaml:"id"`
	BookID     string            `json:"bookId" yaml:"bookId"`
	UserID     string            `json:"userId" yaml:"userId"`
	BorrowDate Date              `json:"borrowDate" yaml:"borrowDate"`
	DueDate    *Date             `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ReturnDate *Date             `json:"returnDate,omitempty" yaml:"returnDate,omitempty"`
	Status     TransactionStatus `json:"status" yaml:"status"`
}
