// Package token defines the lexical token kinds of the Mica language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Number keeps the raw digit string, leading zeros included; the
//     overflow check and code emission both work on that text.
//   - 'int' is the only type keyword; pointer depth comes from '*' tokens.
package token
