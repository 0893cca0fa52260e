package token

var keywords = map[string]Kind{
	"int":      KwInt,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"do":       KwDo,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
