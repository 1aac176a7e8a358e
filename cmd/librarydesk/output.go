package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/term"

	"library-desk/internal/adapter/gin/handler"
	domain "library-desk/internal/domain/library"
	libuc "library-desk/internal/usecase/library"
)

const (
	defaultWidth = 120
	minFlexWidth = 12
	cellPadding  = 2
)

// printer renders query results as tables fitted to the terminal, or as JSON.
type printer struct {
	out   io.Writer
	json  bool
	width int
}

func newPrinter(out io.Writer, asJSON bool) *printer {
	return &printer{out: out, json: asJSON, width: terminalWidth(out)}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows under headers. The flex column is truncated so the
// table fits the printer width.
func (p *printer) table(headers []string, rows [][]string, flex int) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	fixed := 0
	for i, w := range widths {
		if i != flex {
			fixed += w + cellPadding
		}
	}
	flexWidth := max(p.width-fixed, minFlexWidth)

	tw := tabwriter.NewWriter(p.out, 0, 0, cellPadding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		copy(cells, row)
		cells[flex] = truncate(cells[flex], flexWidth)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func (p *printer) books(resp *libuc.BookSearchResponse) error {
	if p.json {
		return p.encode(resp)
	}
	if len(resp.Books) == 0 {
		_, err := fmt.Fprintln(p.out, handler.NoBooksMessage)
		return err
	}
	if err := p.bookTable(resp.Books); err != nil {
		return err
	}
	return p.footer(resp.Pagination, "books")
}

func (p *printer) bookTable(books []domain.Book) error {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.ID,
			b.Title,
			b.Author,
			b.Category,
			strconv.Itoa(b.PublishYear),
			fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies),
		})
	}
	return p.table([]string{"ID", "TITLE", "AUTHOR", "CATEGORY", "YEAR", "AVAILABLE"}, rows, 1)
}

func (p *printer) users(resp *libuc.UserSearchResponse) error {
	if p.json {
		return p.encode(resp)
	}
	if len(resp.Users) == 0 {
		_, err := fmt.Fprintln(p.out, handler.NoUsersMessage)
		return err
	}
	if err := p.userTable(resp.Users); err != nil {
		return err
	}
	return p.footer(resp.Pagination, "users")
}

func (p *printer) userTable(users []domain.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID,
			u.Name,
			u.Email,
			u.ExternalID,
			u.Department,
			string(u.Role),
			string(u.Status),
		})
	}
	return p.table([]string{"ID", "NAME", "EMAIL", "STUDENT ID", "DEPARTMENT", "ROLE", "STATUS"}, rows, 1)
}

func (p *printer) footer(pg *domain.Pagination, noun string) error {
	if pg == nil {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "\npage %d of %d, %d %s\n", pg.Page, max(pg.TotalPages, 1), pg.Total, noun)
	return err
}

func (p *printer) search(resp *libuc.UnifiedSearchResponse) error {
	if p.json {
		return p.encode(resp)
	}

	if strings.TrimSpace(resp.Term) == "" {
		if _, err := fmt.Fprintln(p.out, "Recent activity"); err != nil {
			return err
		}
		return p.activity(resp.Activity)
	}

	var err error
	switch {
	case resp.Mode == libuc.ModeUsers && len(resp.Users) > 0:
		err = p.userTable(resp.Users)
	case resp.Mode == libuc.ModeUsers:
		_, err = fmt.Fprintln(p.out, handler.NoUsersMessage)
	case len(resp.Books) > 0:
		err = p.bookTable(resp.Books)
	default:
		_, err = fmt.Fprintln(p.out, handler.NoBooksMessage)
	}
	return err
}

func (p *printer) activity(items []libuc.ActivityItem) error {
	if p.json {
		return p.encode(items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(p.out, "No recent activity")
		return err
	}
	return p.activityTable(items)
}

func (p *printer) activityTable(items []libuc.ActivityItem) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		due := "-"
		if it.Transaction.DueDate != nil {
			due = it.Transaction.DueDate.String()
		}
		rows = append(rows, []string{
			it.Transaction.BorrowDate.String(),
			it.BookTitle,
			it.UserName,
			string(it.Transaction.Status),
			due,
		})
	}
	return p.table([]string{"BORROWED", "BOOK", "USER", "STATUS", "DUE"}, rows, 1)
}

func (p *printer) dashboard(resp *libuc.DashboardResponse) error {
	if p.json {
		return p.encode(resp)
	}

	s := resp.Stats
	stats := [][]string{
		{"Total books", strconv.Itoa(s.TotalBooks)},
		{"Students", strconv.Itoa(s.Students)},
		{"Borrowed", strconv.Itoa(s.Borrowed)},
		{"Overdue", strconv.Itoa(s.Overdue)},
		{"Available copies", strconv.Itoa(s.AvailableCopies)},
	}
	if err := p.table([]string{"STAT", "COUNT"}, stats, 0); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(p.out, "\nRecent transactions"); err != nil {
		return err
	}
	return p.activity(resp.Recent)
}
