// Package lexer turns Mica source text into tokens.
//
// The scanner is byte-oriented: the language is ASCII-only, so any byte
// outside the token grammar is a LexUnknownChar error. Comments (both
// styles) and whitespace are skipped, not preserved.
package lexer

import (
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Tokenize scans the whole file. On success the last token is EOF; on
// failure the first lexical error comes back and the tokens are nil.
func Tokenize(file *source.File) ([]token.Token, error) {
	lx := New(file)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// Next returns the next significant token.
func (lx *Lexer) Next() (token.Token, *diag.Error) {
	if err := lx.skipTrivia(); err != nil {
		return token.Token{}, err
	}
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: source.NewSpan(lx.cursor.Off, lx.cursor.Off),
		}, nil
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword(), nil
	case isDec(ch):
		return lx.scanNumber(), nil
	default:
		return lx.scanOperatorOrPunct()
	}
}

// skipTrivia consumes whitespace and comments. An unterminated block
// comment is the only way it can fail.
func (lx *Lexer) skipTrivia() *diag.Error {
	for !lx.cursor.EOF() {
		switch ch := lx.cursor.Peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()

		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}

		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			mark := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.cursor.Bump()
			for {
				if lx.cursor.EOF() {
					return diag.Errorf(lx.file, lx.cursor.SpanFrom(mark),
						diag.LexUnterminatedComment, "unterminated block comment")
				}
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					break
				}
				lx.cursor.Bump()
			}

		default:
			return nil
		}
	}
	return nil
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	mark := lx.cursor.Mark()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(mark)
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(mark), Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	mark := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{
		Kind: token.Number,
		Span: lx.cursor.SpanFrom(mark),
		Text: lx.cursor.TextFrom(mark),
	}
}

func (lx *Lexer) scanOperatorOrPunct() (token.Token, *diag.Error) {
	mark := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	kind := token.Invalid
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '~':
		kind = token.Tilde
	case '?':
		kind = token.Question
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '!':
		kind = token.Bang
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.BangEq
		}
	case '=':
		kind = token.Assign
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.EqEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.GtEq
		}
	case '&':
		kind = token.Amp
		if lx.cursor.Peek() == '&' {
			lx.cursor.Bump()
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Peek() == '|' {
			lx.cursor.Bump()
			kind = token.OrOr
		}
	}

	span := lx.cursor.SpanFrom(mark)
	if kind == token.Invalid {
		return token.Token{}, diag.Errorf(lx.file, span,
			diag.LexUnknownChar, "unknown character %q", rune(ch))
	}
	return token.Token{Kind: kind, Span: span, Text: lx.cursor.TextFrom(mark)}, nil
}

func isIdentStart(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
