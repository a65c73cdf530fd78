package cli

import (
	"errors"
	"unicode"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// splitWords splits a shell line into arguments. It supports single quotes,
// double quotes and backslash escaping outside single quotes. "" yields an
// empty argument.
func splitWords(s string) ([]string, error) {
	var out []string
	var cur []rune
	inWord := false
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if !inWord {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
		inWord = false
	}

	for _, r := range s {
		if escaped {
			cur = append(cur, r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingle:
			escaped = true
			inWord = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			inWord = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			inWord = true
		case !inSingle && !inDouble && unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
			inWord = true
		}
	}

	if inSingle || inDouble || escaped {
		return nil, errUnterminatedQuote
	}
	flush()
	return out, nil
}
