// Package parser builds the Mica syntax tree by recursive descent.
//
// The parser is fail-fast like the rest of the compiler: the first
// syntax error aborts the parse. There is no recovery and no resync.
package parser

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/lexer"
	"mica/internal/source"
	"mica/internal/token"
)

// Parser holds the state for parsing one file.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	lastSpan source.Span // span of the last consumed token
}

// Parse tokenizes and parses one file into a Program.
func Parse(file *source.File) (*ast.Program, error) {
	toks, err := lexer.Tokenize(file)
	if err != nil {
		return nil, err
	}
	p := &Parser{file: file, toks: toks}
	prog, perr := p.parseProgram()
	if perr != nil {
		return nil, perr
	}
	return prog, nil
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

// advance consumes the current token.
func (p *Parser) advance() token.Token {
	tok := p.cur()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.pos++
	}
	return tok
}

// accept consumes the current token when it has the wanted kind.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes a token of the wanted kind or fails the parse.
func (p *Parser) expect(k token.Kind) (token.Token, *diag.Error) {
	if p.at(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.errUnexpected(k)
}

func (p *Parser) errUnexpected(want token.Kind) *diag.Error {
	got := p.cur()
	return diag.Errorf(p.file, got.Span, diag.SynUnexpectedToken,
		"expected %s, found %s", want, p.describe(got))
}

func (p *Parser) describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.Number:
		return "'" + tok.Text + "'"
	default:
		return tok.Kind.String()
	}
}

// spanFrom builds a span from the start of a construct to the last
// consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

func (p *Parser) parseProgram() (*ast.Program, *diag.Error) {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, nil
}

// parseTypeSpec parses 'int' '*'*.
func (p *Parser) parseTypeSpec() (ast.TypeSpec, *diag.Error) {
	kw, err := p.expect(token.KwInt)
	if err != nil {
		return ast.TypeSpec{}, err
	}
	spec := ast.TypeSpec{Span: kw.Span}
	for {
		tok, ok := p.accept(token.Star)
		if !ok {
			break
		}
		spec.Stars++
		spec.Span = spec.Span.Cover(tok.Span)
	}
	return spec, nil
}
