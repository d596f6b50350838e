package parser

import "github.com/roach88/matchc/internal/syntax"

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Punct

	// Template pieces. A template without substitutions is a single
	// NoSubstTemplate; otherwise it is TemplateHead, zero or more
	// TemplateMiddle and a TemplateTail, with expression tokens in between.
	NoSubstTemplate
	TemplateHead
	TemplateMiddle
	TemplateTail
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case Punct:
		return "punctuation"
	case NoSubstTemplate, TemplateHead, TemplateMiddle, TemplateTail:
		return "template"
	}
	return "token"
}

// Token is one lexical token.
//
// Value holds the identifier name, the punctuator, the raw number spelling,
// the raw string literal including quotes, or the raw template fragment text
// without its delimiters.
type Token struct {
	Kind          Kind
	Value         string
	Pos           syntax.Pos
	NewlineBefore bool
}

// keywords that never start an identifier reference.
var reserved = map[string]bool{
	"const": true, "let": true, "var": true, "function": true, "return": true,
	"if": true, "else": true, "new": true, "throw": true, "typeof": true,
	"void": true, "delete": true, "instanceof": true, "in": true,
	"true": true, "false": true, "null": true,
}

// keywordTypes are the predefined type names.
var keywordTypes = map[string]bool{
	"number": true, "string": true, "boolean": true, "any": true,
	"unknown": true, "never": true, "void": true, "undefined": true,
	"null": true, "object": true, "symbol": true, "bigint": true,
}

// punctuators, longest first so the lexer can match greedily.
var punctuators = []string{
	"...", "===", "!==", "**=", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "**",
	"++", "--", "+=", "-=", "*=", "/=", "%=",
	"{", "}", "(", ")", "[", "]", ";", ",", ".", ":", "?",
	"<", ">", "=", "+", "-", "*", "/", "%", "!", "~", "&", "|", "^", "@", "#",
}

// IsIdentifier reports whether s is a single non-reserved identifier.
func IsIdentifier(s string) bool {
	toks, err := Tokenize(s)
	if err != nil || len(toks) != 2 {
		return false
	}
	return toks[0].Kind == Ident && !reserved[toks[0].Value]
}
