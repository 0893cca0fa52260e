package parser

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/token"
)

// parseItem parses one top-level declaration. Every item starts with a
// type spec and a name; the next token decides between a function and a
// global variable.
func (p *Parser) parseItem() (ast.Item, *diag.Error) {
	start := p.cur().Span
	spec, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	if p.at(token.LParen) {
		return p.parseFuncRest(start, spec, name)
	}
	return p.parseGlobalRest(start, spec, name)
}

// parseFuncRest parses the parameter list and then either ';' for a
// declaration or a brace block for a definition.
func (p *Parser) parseFuncRest(start source.Span, ret ast.TypeSpec, name token.Token) (*ast.FuncDecl, *diag.Error) {
	p.advance() // (

	var params []ast.Param
	if !p.at(token.RParen) {
		for {
			pspec, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			pname, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Type: pspec, Name: pname.Text, NameSpan: pname.Span})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	decl := &ast.FuncDecl{Ret: ret, Name: name.Text, NameSpan: name.Span, Params: params}
	if _, ok := p.accept(token.Semicolon); ok {
		decl.Span = p.spanFrom(start)
		return decl, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	decl.Span = p.spanFrom(start)
	return decl, nil
}

// parseGlobalRest parses the declarator tail of a global variable:
// array dimensions, or an optional literal initializer. Globals accept
// only a number literal on the right of '='.
func (p *Parser) parseGlobalRest(start source.Span, spec ast.TypeSpec, name token.Token) (*ast.VarDecl, *diag.Error) {
	decl := &ast.VarDecl{Type: spec, Name: name.Text, NameSpan: name.Span}

	for p.at(token.LBracket) {
		p.advance()
		num, err := p.expect(token.Number)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		decl.Dims = append(decl.Dims, ast.Dim{Text: num.Text, Span: num.Span})
	}

	if len(decl.Dims) == 0 {
		if _, ok := p.accept(token.Assign); ok {
			num, err := p.expect(token.Number)
			if err != nil {
				return nil, err
			}
			decl.Init = &ast.NumberLit{Text: num.Text, Span: num.Span}
		}
	}

	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

// parseLocalDecl parses a block-level declaration. Unlike globals, a
// scalar initializer is a full expression.
func (p *Parser) parseLocalDecl() (*ast.VarDecl, *diag.Error) {
	start := p.cur().Span
	spec, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Type: spec, Name: name.Text, NameSpan: name.Span}

	for p.at(token.LBracket) {
		p.advance()
		num, err := p.expect(token.Number)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		decl.Dims = append(decl.Dims, ast.Dim{Text: num.Text, Span: num.Span})
	}

	if len(decl.Dims) == 0 {
		if _, ok := p.accept(token.Assign); ok {
			init, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
	}

	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, *diag.Error) {
	lb, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStmt{}
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.errUnexpected(token.RBrace)
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, item)
	}
	p.advance() // }
	block.Span = p.spanFrom(lb.Span)
	return block, nil
}

func (p *Parser) parseBlockItem() (ast.Stmt, *diag.Error) {
	if p.at(token.KwInt) {
		return p.parseLocalDecl()
	}
	return p.parseStmt()
}
