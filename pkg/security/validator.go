package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSearchTermLength is the longest search term, in runes, a query accepts.
	MaxSearchTermLength = 100
	// MaxTextLength is the longest free-text field accepted on a new record.
	MaxTextLength = 500
)

var (
	ErrSearchTermTooLong = errors.New("search term too long")
	ErrTextTooLong       = errors.New("text too long")
	ErrInvalidCharacter  = errors.New("text contains control characters")
	ErrMarkup            = errors.New("text contains markup")
)

// markupPatterns match content that would be executed if a record were
// rendered into an HTML page.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed|style)`),
	regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
}

// CheckSearchTerm rejects terms longer than MaxSearchTermLength runes.
// Accepted terms are matched verbatim, never shortened.
func CheckSearchTerm(term string) error {
	if utf8.RuneCountInString(term) > MaxSearchTermLength {
		return ErrSearchTermTooLong
	}
	return nil
}

// SanitizeText trims a free-text field from a new record and rejects values
// that are too long, carry control characters, or contain active markup.
func SanitizeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if utf8.RuneCountInString(s) > MaxTextLength {
		return "", ErrTextTooLong
	}

	for _, r := range s {
		if !isValidTextRune(r) {
			return "", ErrInvalidCharacter
		}
	}

	for _, p := range markupPatterns {
		if p.MatchString(s) {
			return "", ErrMarkup
		}
	}

	return s, nil
}

// isValidTextRune allows printable runes plus ordinary spacing.
func isValidTextRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsPrint(r) || r == '\n' || r == '\t'
}
