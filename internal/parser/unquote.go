package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquote interprets the escape sequences of a string literal body.
func unquote(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			r, w := utf8.DecodeRuneInString(body[i:])
			b.WriteRune(r)
			i += w
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("trailing backslash in string literal")
		}
		c = body[i]
		i++
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if i+2 > len(body) {
				return "", fmt.Errorf("malformed \\x escape")
			}
			n, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", fmt.Errorf("malformed \\x escape")
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			var hex string
			if i < len(body) && body[i] == '{' {
				end := strings.IndexByte(body[i:], '}')
				if end < 0 {
					return "", fmt.Errorf("malformed \\u escape")
				}
				hex = body[i+1 : i+end]
				i += end + 1
			} else {
				if i+4 > len(body) {
					return "", fmt.Errorf("malformed \\u escape")
				}
				hex = body[i : i+4]
				i += 4
			}
			n, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed \\u escape")
			}
			b.WriteRune(rune(n))
		default:
			// \\, \', \" and any other character stand for themselves
			r, w := utf8.DecodeRuneInString(body[i-1:])
			b.WriteRune(r)
			i += w - 1
		}
	}
	return b.String(), nil
}

// Unquote interprets the escape sequences of a string literal body or a
// template fragment.
func Unquote(raw string) (string, error) {
	return unquote(raw)
}
