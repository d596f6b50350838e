package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/matchc/internal/syntax"
)

// Tokenize splits src into tokens, ending with a single EOF token.
//
// Template literals are tokenized eagerly: the lexer tracks brace depth inside
// each open substitution so the closing } resumes the template text.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{input: src, line: 1, column: 1}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

type lexer struct {
	input   string
	offset  int
	line    int
	column  int
	newline bool

	// depth of { nesting inside each open template substitution
	templates []int
}

func (l *lexer) pos() syntax.Pos {
	return syntax.Pos{Line: l.line, Column: l.column}
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes past the current offset, or 0 at end of input.
func (l *lexer) peekAt(n int) rune {
	off := l.offset
	for i := 0; ; i++ {
		if off >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[off:])
		if i == n {
			return r
		}
		off += w
	}
}

func (l *lexer) advance() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += w
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) errorf(pos syntax.Pos, format string, args ...any) error {
	return newError(pos, format, args...)
}

func (l *lexer) next() (Token, error) {
	l.newline = false
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	start := l.pos()
	tok := Token{Pos: start, NewlineBefore: l.newline}

	if l.offset >= len(l.input) {
		if len(l.templates) > 0 {
			return Token{}, l.errorf(start, "unterminated template literal")
		}
		tok.Kind = EOF
		return tok, nil
	}

	ch := l.peek()
	switch {
	case isIdentStart(ch):
		tok.Kind = Ident
		tok.Value = l.readWhile(isIdentPart)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		tok.Kind = Number
		tok.Value = l.readNumber()
	case ch == '"' || ch == '\'':
		raw, err := l.readString(ch)
		if err != nil {
			return Token{}, err
		}
		tok.Kind = String
		tok.Value = raw
	case ch == '`':
		l.advance()
		return l.readTemplate(tok, true)
	case ch == '}' && len(l.templates) > 0 && l.templates[len(l.templates)-1] == 0:
		l.templates = l.templates[:len(l.templates)-1]
		l.advance()
		return l.readTemplate(tok, false)
	default:
		p, ok := l.matchPunct()
		if !ok {
			return Token{}, l.errorf(start, "unexpected character %q", ch)
		}
		if n := len(l.templates); n > 0 {
			switch p {
			case "{":
				l.templates[n-1]++
			case "}":
				l.templates[n-1]--
			}
		}
		tok.Kind = Punct
		tok.Value = p
	}
	return tok, nil
}

func (l *lexer) skipSpace() error {
	for l.offset < len(l.input) {
		ch := l.peek()
		switch {
		case ch == '\n':
			l.newline = true
			l.advance()
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v' || ch == '\u00a0' || ch == '\ufeff':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for l.offset < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekAt(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			for {
				if l.offset >= len(l.input) {
					return l.errorf(start, "unterminated comment")
				}
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				if l.advance() == '\n' {
					l.newline = true
				}
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) readWhile(ok func(rune) bool) string {
	start := l.offset
	for l.offset < len(l.input) && ok(l.peek()) {
		l.advance()
	}
	return l.input[start:l.offset]
}

func (l *lexer) readNumber() string {
	start := l.offset
	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			l.advance()
			l.readWhile(func(r rune) bool { return isHexDigit(r) || r == '_' })
			return l.input[start:l.offset]
		}
	}
	l.readWhile(func(r rune) bool { return isDigit(r) || r == '_' })
	if l.peek() == '.' && isDigit(l.peekAt(1)) || l.peek() == '.' && start == l.offset {
		l.advance()
		l.readWhile(func(r rune) bool { return isDigit(r) || r == '_' })
	}
	if e := l.peek(); e == 'e' || e == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			l.readWhile(isDigit)
		}
	}
	if l.peek() == 'n' {
		l.advance()
	}
	return l.input[start:l.offset]
}

func (l *lexer) readString(quote rune) (string, error) {
	start := l.pos()
	begin := l.offset
	l.advance()
	for {
		if l.offset >= len(l.input) {
			return "", l.errorf(start, "unterminated string literal")
		}
		ch := l.advance()
		switch ch {
		case quote:
			return l.input[begin:l.offset], nil
		case '\\':
			if l.offset >= len(l.input) {
				return "", l.errorf(start, "unterminated string literal")
			}
			l.advance()
		case '\n':
			return "", l.errorf(start, "newline in string literal")
		}
	}
}

// readTemplate scans template text up to the closing backtick or the next
// substitution. head is true right after an opening backtick.
func (l *lexer) readTemplate(tok Token, head bool) (Token, error) {
	var b strings.Builder
	for {
		if l.offset >= len(l.input) {
			return Token{}, l.errorf(tok.Pos, "unterminated template literal")
		}
		ch := l.peek()
		switch {
		case ch == '`':
			l.advance()
			tok.Value = b.String()
			if head {
				tok.Kind = NoSubstTemplate
			} else {
				tok.Kind = TemplateTail
			}
			return tok, nil
		case ch == '$' && l.peekAt(1) == '{':
			l.advance()
			l.advance()
			l.templates = append(l.templates, 0)
			tok.Value = b.String()
			if head {
				tok.Kind = TemplateHead
			} else {
				tok.Kind = TemplateMiddle
			}
			return tok, nil
		case ch == '\\':
			b.WriteRune(l.advance())
			if l.offset < len(l.input) {
				b.WriteRune(l.advance())
			}
		default:
			b.WriteRune(l.advance())
		}
	}
}

func (l *lexer) matchPunct() (string, bool) {
	rest := l.input[l.offset:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			// ?. followed by a digit is a conditional operator and a number
			if p == "?." && len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9' {
				continue
			}
			for range p {
				l.advance()
			}
			return p, true
		}
	}
	return "", false
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
