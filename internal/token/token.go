package token

import (
	"mica/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool { return t.Kind == Number }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwInt, KwReturn, KwIf, KwElse, KwWhile, KwDo, KwFor, KwBreak, KwContinue:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
