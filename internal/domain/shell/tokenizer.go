package shell

import (
	"errors"
	"strings"

	"github.com/google/shlex"
)

var (
	// ErrUnterminatedQuote is returned for a line that ends inside quotes.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrDanglingEscape is returned for a line that ends in a backslash.
	ErrDanglingEscape = errors.New("line ends with an escape character")
)

// Tokenize splits a line into words with shell quoting rules: single
// quotes are literal, double quotes allow backslash escapes, a bare
// backslash escapes the next character and an unquoted # at the start of
// a word begins a comment. Nothing is expanded.
func Tokenize(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		switch msg := err.Error(); {
		case strings.Contains(msg, "closing quote"):
			return nil, ErrUnterminatedQuote
		case strings.Contains(msg, "escape character"):
			return nil, ErrDanglingEscape
		default:
			return nil, err
		}
	}
	return words, nil
}
