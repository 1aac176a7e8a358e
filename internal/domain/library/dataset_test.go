package library

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "library-desk/pkg/errors"
)

func validDataset() Dataset {
	return Dataset{
		Books: []Book{
			{ID: "1", Title: "Clean Code", Author: "Robert Martin", Category: "Software", TotalCopies: 3, AvailableCopies: 2},
			{ID: "2", Title: "Dune", Author: "Frank Herbert", Category: "Fiction", TotalCopies: 1, AvailableCopies: 0},
		},
		Users: []User{
			{ID: "u1", Name: "Alice", Role: RoleStudent},
			{ID: "u2", Name: "Bob", Role: RoleLibrarian, Status: "suspended"},
		},
		Transactions: []Transaction{
			{ID: "t1", BookID: "1", UserID: "u1", BorrowDate: MustDate("2024-01-01"), Status: TransactionBorrowed},
			{ID: "t2", BookID: "missing", UserID: "u1", BorrowDate: MustDate("2024-02-01"), Status: TransactionOverdue},
		},
	}
}

func TestDataset_Validate_Success(t *testing.T) {
	d := validDataset()
	assert.NoError(t, d.Validate())
}

func TestDataset_Validate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Dataset)
		errMsg  string
		asValid bool
	}{
		{
			name:    "available exceeds total",
			mutate:  func(d *Dataset) { d.Books[0].AvailableCopies = 5 },
			errMsg:  "5 available exceeds 3 total",
			asValid: true,
		},
		{
			name:    "negative available",
			mutate:  func(d *Dataset) { d.Books[1].AvailableCopies = -1 },
			errMsg:  "must not be negative",
			asValid: true,
		},
		{
			name:    "empty book id",
			mutate:  func(d *Dataset) { d.Books[0].ID = " " },
			errMsg:  "book.id",
			asValid: true,
		},
		{
			name:    "unknown role",
			mutate:  func(d *Dataset) { d.Users[0].Role = "admin" },
			errMsg:  `unknown role "admin"`,
			asValid: true,
		},
		{
			name:    "unknown transaction status",
			mutate:  func(d *Dataset) { d.Transactions[0].Status = "lost" },
			errMsg:  `unknown status "lost"`,
			asValid: true,
		},
		{
			name:    "missing borrow date",
			mutate:  func(d *Dataset) { d.Transactions[1].BorrowDate = Date{} },
			errMsg:  "transaction.borrowDate",
			asValid: true,
		},
		{
			name:   "duplicate user id",
			mutate: func(d *Dataset) { d.Users[1].ID = "u1" },
			errMsg: "duplicate user id u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDataset()
			tt.mutate(&d)

			err := d.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			if tt.asValid {
				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
			}
		})
	}
}

func TestDataset_Validate_DanglingReferencesAllowed(t *testing.T) {
	d := validDataset()
	d.Transactions[0].BookID = "nope"
	d.Transactions[0].UserID = "nobody"
	assert.NoError(t, d.Validate())
}

func TestDataset_Normalize(t *testing.T) {
	d := validDataset()
	d.Users[0].Status = ""
	d.Normalize()

	assert.Equal(t, PlaceholderCover, d.Books[0].CoverURL)
	assert.Equal(t, StatusActive, d.Users[0].Status)
	assert.Equal(t, UserStatus("suspended"), d.Users[1].Status)
}

func TestBook_Borrowable(t *testing.T) {
	assert.True(t, Book{AvailableCopies: 1}.Borrowable())
	assert.False(t, Book{AvailableCopies: 0}.Borrowable())
}

func TestDate_JSON(t *testing.T) {
	var tx Transaction
	err := json.Unmarshal([]byte(`{"id":"t1","bookId":"b","userId":"u","borrowDate":"2024-03-01","dueDate":null,"status":"borrowed"}`), &tx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", tx.BorrowDate.String())
	assert.Nil(t, tx.DueDate)

	out, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"borrowDate":"2024-03-01"`)
	assert.NotContains(t, string(out), "dueDate")

	err = json.Unmarshal([]byte(`{"borrowDate":"03/01/2024"}`), &tx)
	assert.Error(t, err)
}

func TestDate_YAML(t *testing.T) {
	var u User
	err := yaml.Unmarshal([]byte("id: u1\nname: Alice\nrole: student\njoinDate: 2023-09-01\n"), &u)
	require.NoError(t, err)
	assert.Equal(t, "2023-09-01", u.JoinDate.String())
	assert.Equal(t, RoleStudent, u.Role)
}

func TestParseDate_RFC3339(t *testing.T) {
	d, err := ParseDate("2024-01-15T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.String())
	assert.Equal(t, 0, d.Compare(MustDate("2024-01-15")))
	assert.Equal(t, -1, MustDate("2024-01-14").Compare(d))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, p := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, int64(3), p.TotalPages)

	page, _ = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, _ = Paginate(items, 9, 2)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	_, p = Paginate([]int{}, 1, 10)
	assert.Equal(t, int64(0), p.TotalPages)
}

func TestPaginate_HugeValues(t *testing.T) {
	items := []int{1, 2, 3}

	for _, page := range []int64{math.MaxInt64, 368934881474191033, math.MaxInt64/50 + 2} {
		got, p := Paginate(items, page, 50)
		assert.NotNil(t, got)
		assert.Empty(t, got, "page %d", page)
		assert.Equal(t, int64(3), p.Total)
		assert.Equal(t, int64(1), p.TotalPages)
	}

	got, p := Paginate(items, 1, math.MaxInt64)
	assert.Equal(t, items, got)
	assert.Equal(t, int64(1), p.TotalPages)
}
