package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/allisson/authtokens/internal/errors"
)

// ErrMissingParameter indicates a named parameter in a statement had no bound value.
var ErrMissingParameter = errors.Wrap(errors.ErrInvalidInput, "missing query parameter")

// Placeholder returns the positional placeholder for the n-th (1-based) argument.
func Placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// BindNamed rewrites :name parameters into the driver's positional placeholders and returns
// the argument list in order. Quoted strings and PostgreSQL :: casts are left untouched.
func BindNamed(driver, query string, params map[string]any) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				b.WriteString(query[i:])
				return b.String(), args, nil
			}
			b.WriteString(query[i : i+end+2])
			i += end + 1

		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++

		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdentPart(query[j]) {
				j++
			}
			name := query[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
			}
			args = append(args, value)
			b.WriteString(Placeholder(driver, len(args)))
			i = j - 1

		default:
			b.WriteByte(c)
		}
	}

	return b.String(), args, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
