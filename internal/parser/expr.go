package parser

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/token"
)

// parseExpr parses the assignment level. The left side of '=' must be
// grammatically a unary expression; anything else is a syntax error,
// not a semantic one.
func (p *Parser) parseExpr() (ast.Expr, *diag.Error) {
	lhs, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Assign) {
		return lhs, nil
	}
	eq := p.advance()
	if !isUnaryShaped(lhs) {
		return nil, diag.Errorf(p.file, eq.Span, diag.SynInvalidAssignTarget,
			"left side of '=' must be a unary expression")
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{LHS: lhs, RHS: rhs, Span: lhs.Pos().Cover(rhs.Pos())}, nil
}

// isUnaryShaped reports whether the node could have been produced by
// the unary production. Parenthesized forms count: '(a+b) = c' parses
// and the value-category check rejects it later.
func isUnaryShaped(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.NumberLit, *ast.ParenExpr, *ast.UnaryExpr,
		*ast.CastExpr, *ast.CallExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTernary() (ast.Expr, *diag.Error) {
	cond, err := p.parseLOr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(token.Question); !ok {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.CondExpr{Cond: cond, Then: then, Else: els, Span: cond.Pos().Cover(els.Pos())}, nil
}

// parseBinaryChain parses a left-associative run of the given operators
// one precedence level above next.
func (p *Parser) parseBinaryChain(next func() (ast.Expr, *diag.Error), ops ...token.Kind) (ast.Expr, *diag.Error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if p.at(op) {
				matched = true
				break
			}
		}
		if !matched {
			return lhs, nil
		}
		op := p.advance()
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Op: op.Kind, X: lhs, Y: rhs, Span: lhs.Pos().Cover(rhs.Pos())}
	}
}

func (p *Parser) parseLOr() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseLAnd, token.OrOr)
}

func (p *Parser) parseLAnd() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseEquality, token.AndAnd)
}

func (p *Parser) parseEquality() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseRelational, token.EqEq, token.BangEq)
}

func (p *Parser) parseRelational() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseAdditive, token.Lt, token.LtEq, token.Gt, token.GtEq)
}

func (p *Parser) parseAdditive() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() (ast.Expr, *diag.Error) {
	return p.parseBinaryChain(p.parseUnary, token.Star, token.Slash, token.Percent)
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Error) {
	switch p.cur().Kind {
	case token.Minus, token.Bang, token.Tilde, token.Star, token.Amp:
		op := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, X: x, Span: op.Span.Cover(x.Pos())}, nil
	case token.LParen:
		// '(' 'int' ... is a cast; any other '(' belongs to primary.
		if p.peekAt(1).Kind == token.KwInt {
			lp := p.advance()
			spec, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.CastExpr{To: spec, X: x, Span: lp.Span.Cover(x.Pos())}, nil
		}
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary (or a call on a bare name) followed by
// any number of subscripts. Only identifiers can be called; there are
// no function values to call indirectly.
func (p *Parser) parsePostfix() (ast.Expr, *diag.Error) {
	var x ast.Expr

	if p.at(token.Ident) && p.peekAt(1).Kind == token.LParen {
		name := p.advance()
		p.advance() // (
		call := &ast.CallExpr{Name: name.Text, NameSpan: name.Span}
		if !p.at(token.RParen) {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		call.Span = p.spanFrom(name.Span)
		x = call
	} else {
		prim, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		x = prim
	}

	for p.at(token.LBracket) {
		p.advance()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		x = &ast.IndexExpr{Base: x, Index: idx, Span: p.spanFrom(x.Pos())}
	}
	return x, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Error) {
	switch p.cur().Kind {
	case token.Number:
		tok := p.advance()
		return &ast.NumberLit{Text: tok.Text, Span: tok.Span}, nil
	case token.Ident:
		tok := p.advance()
		return &ast.Ident{Name: tok.Text, Span: tok.Span}, nil
	case token.LParen:
		lp := p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{X: x, Span: p.spanFrom(lp.Span)}, nil
	default:
		got := p.cur()
		return nil, diag.Errorf(p.file, got.Span, diag.SynExpectExpression,
			"expected expression, found %s", p.describe(got))
	}
}
