package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// Number represents a decimal integer literal token.
	Number

	// KwInt represents the 'int' keyword.
	KwInt // int
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Bang represents the bang operator token.
	Bang // !
	// Tilde represents the tilde operator token.
	Tilde // ~
	// Amp represents the amp operator token.
	Amp // &
	// Assign represents the assign operator token.
	Assign // =
	// EqEq represents the eq eq operator token.
	EqEq // ==
	// BangEq represents the bang eq operator token.
	BangEq // !=
	// Lt represents the lt operator token.
	Lt // <
	// LtEq represents the lt eq operator token.
	LtEq // <=
	// Gt represents the gt operator token.
	Gt // >
	// GtEq represents the gt eq operator token.
	GtEq // >=
	// AndAnd represents the and and operator token.
	AndAnd // &&
	// OrOr represents the or or operator token.
	OrOr // ||
	// Question represents the question operator token.
	Question // ?
	// Colon represents the colon operator token.
	Colon // :
	// Semicolon represents the semicolon operator token.
	Semicolon // ;
	// Comma represents the comma operator token.
	Comma // ,
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	Number:     "number",
	KwInt:      "'int'",
	KwReturn:   "'return'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwWhile:    "'while'",
	KwDo:       "'do'",
	KwFor:      "'for'",
	KwBreak:    "'break'",
	KwContinue: "'continue'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Bang:       "'!'",
	Tilde:      "'~'",
	Amp:        "'&'",
	Assign:     "'='",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	Question:   "'?'",
	Colon:      "':'",
	Semicolon:  "';'",
	Comma:      "','",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
}

// String returns a human-readable name for the kind, as used in syntax
// error messages.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
