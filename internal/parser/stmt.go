package parser

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/token"
)

func (p *Parser) parseStmt() (ast.Stmt, *diag.Error) {
	switch p.cur().Kind {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.LBrace:
		return p.parseBlock()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		tok := p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Span: p.spanFrom(tok.Span)}, nil
	case token.KwContinue:
		tok := p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Span: p.spanFrom(tok.Span)}, nil
	case token.Semicolon:
		tok := p.advance()
		return &ast.ExprStmt{Span: tok.Span}, nil
	default:
		start := p.cur().Span
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: x, Span: p.spanFrom(start)}, nil
	}
}

func (p *Parser) parseReturn() (ast.Stmt, *diag.Error) {
	tok := p.advance() // return
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{X: x, Span: p.spanFrom(tok.Span)}, nil
}

func (p *Parser) parseIf() (ast.Stmt, *diag.Error) {
	tok := p.advance() // if
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	if _, ok := p.accept(token.KwElse); ok {
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	stmt.Span = p.spanFrom(tok.Span)
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, *diag.Error) {
	tok := p.advance() // while
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Span: p.spanFrom(tok.Span)}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, *diag.Error) {
	tok := p.advance() // do
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Body: body, Cond: cond, Span: p.spanFrom(tok.Span)}, nil
}

// parseFor parses all four header clauses. The init clause is either a
// local declaration (which eats its own ';'), an expression, or empty.
func (p *Parser) parseFor() (ast.Stmt, *diag.Error) {
	tok := p.advance() // for
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	stmt := &ast.ForStmt{}
	switch {
	case p.at(token.KwInt):
		init, err := p.parseLocalDecl()
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	case p.at(token.Semicolon):
		p.advance()
	default:
		start := p.cur().Span
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		stmt.Init = &ast.ExprStmt{X: x, Span: p.spanFrom(start)}
	}

	if !p.at(token.Semicolon) {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	if !p.at(token.RParen) {
		post, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	stmt.Span = p.spanFrom(tok.Span)
	return stmt, nil
}
