package parser

import (
	"fmt"
	"strconv"

	"github.com/einah-lang/einah/pkg/lexer"
	"github.com/einah-lang/einah/pkg/token"
)

type parser struct {
	tokens []token.Token
	pos    int
}

// ProduceAST tokenizes and parses src into a Program. The first lexical or
// syntax error aborts parsing and no partial tree is returned.
func ProduceAST(src string) (*Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

// Parse builds a Program from an EOF-terminated token sequence.
func Parse(tokens []token.Token) (*Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}

	p := &parser{tokens: tokens}

	prog := &Program{Position: Position{Line: 1, Column: 1}}
	for !p.atEOF() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

func (p *parser) at() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) atEOF() bool {
	return p.at().Kind == token.EOF
}

func (p *parser) eat() token.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}

	return tok
}

func (p *parser) is(kinds ...token.Kind) bool {
	cur := p.at().Kind
	for _, kind := range kinds {
		if cur == kind {
			return true
		}
	}

	return false
}

func (p *parser) expect(kind token.Kind, msg string) (token.Token, error) {
	tok := p.at()
	if tok.Kind != kind {
		return tok, &SyntaxError{
			Position: positionOf(tok),
			Found:    tok,
			Expected: kind.String(),
			Msg:      msg,
		}
	}

	return p.eat(), nil
}

func (p *parser) unexpected(expected, msg string) error {
	tok := p.at()
	return &SyntaxError{
		Position: positionOf(tok),
		Found:    tok,
		Expected: expected,
		Msg:      msg,
	}
}

func (p *parser) expectTerminator(what string) error {
	_, err := p.expect(token.Tilde, what+" must end with '~'")
	return err
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.at().Kind {
	case token.Sprout, token.Root:
		return p.parseVarDeclaration()
	case token.Spit:
		return p.parsePrintStatement()
	case token.Whisper:
		return p.parseConditional()
	case token.Spin:
		return p.parseWhileLoop()
	case token.Cartwheel:
		return p.parseForLoop()
	case token.Drift:
		return p.parseForEachLoop()
	case token.Skip:
		tok := p.eat()
		if err := p.expectTerminator("skip"); err != nil {
			return nil, err
		}
		return &SkipStatement{Position: positionOf(tok)}, nil
	case token.Shatter:
		tok := p.eat()
		if err := p.expectTerminator("shatter"); err != nil {
			return nil, err
		}
		return &ShatterStatement{Position: positionOf(tok)}, nil
	case token.Conjure:
		return p.parseFunctionDeclaration()
	case token.Zipback:
		return p.parseReturnStatement()
	case token.Nest:
		return p.parseBlockStatement()
	default:
		return p.parseExprStatement()
	}
}

func (p *parser) parseVarDeclaration() (Stmt, error) {
	kw := p.eat()
	constant := kw.Kind == token.Root

	ident, err := p.expect(token.Identifier, "expected identifier after "+kw.Literal)
	if err != nil {
		return nil, err
	}

	decl := &VarDeclaration{
		Position: positionOf(kw),
		Constant: constant,
		Name:     ident.Literal,
	}

	if p.is(token.Tilde) {
		if constant {
			return nil, p.unexpected(token.Arrow.String(), "must assign value to a constant")
		}
		p.eat()
		return decl, nil
	}

	_, err = p.expect(token.Arrow, "expected '->' in variable declaration")
	if err != nil {
		return nil, err
	}

	decl.Value, err = p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("variable declaration"); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) parsePrintStatement() (Stmt, error) {
	kw := p.eat()

	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("spit"); err != nil {
		return nil, err
	}

	return &PrintStatement{Position: positionOf(kw), Argument: arg}, nil
}

type conditionalClause struct {
	pos       Position
	condition Expr
	body      []Stmt
}

func (p *parser) parseConditional() (Stmt, error) {
	kw := p.eat()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.is(token.Then) {
		p.eat()
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var clauses []conditionalClause
	var elseBlock []Stmt

	for p.is(token.OrElse) {
		orTok := p.eat()

		if p.is(token.OpenBracket) {
			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
			break
		}

		elifCond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(token.Then, "expected 'then' after 'or' condition")
		if err != nil {
			return nil, err
		}

		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		clauses = append(clauses, conditionalClause{
			pos:       positionOf(orTok),
			condition: elifCond,
			body:      body,
		})
	}

	if err := p.expectTerminator("whisper"); err != nil {
		return nil, err
	}

	for i := len(clauses) - 1; i >= 0; i-- {
		nested := &ConditionalStatement{
			Position:  clauses[i].pos,
			Condition: clauses[i].condition,
			Then:      clauses[i].body,
			Else:      elseBlock,
		}
		elseBlock = []Stmt{nested}
	}

	return &ConditionalStatement{
		Position:  positionOf(kw),
		Condition: cond,
		Then:      then,
		Else:      elseBlock,
	}, nil
}

func (p *parser) parseWhileLoop() (Stmt, error) {
	kw := p.eat()

	var cond Expr
	var err error
	switch {
	case p.is(token.Forever):
		tok := p.eat()
		cond = &BooleanLiteral{Position: positionOf(tok), Value: true}
	case p.is(token.AngleOpen):
		p.eat()
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.AngleClose, "expected '>>' after loop condition")
		if err != nil {
			return nil, err
		}
	default:
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("spin"); err != nil {
		return nil, err
	}

	return &WhileLoop{Position: positionOf(kw), Condition: cond, Body: body}, nil
}

func (p *parser) parseForLoop() (Stmt, error) {
	kw := p.eat()

	ident, err := p.expect(token.Identifier, "expected loop variable after cartwheel")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.AngleOpen, "expected '<<' before loop range")
	if err != nil {
		return nil, err
	}

	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Comma, "expected ',' between loop start and end")
	if err != nil {
		return nil, err
	}

	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var step Expr
	if p.is(token.Comma) {
		p.eat()
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.expect(token.AngleClose, "expected '>>' after loop range")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("cartwheel"); err != nil {
		return nil, err
	}

	return &ForLoop{
		Position: positionOf(kw),
		Iterator: ident.Literal,
		Start:    start,
		End:      end,
		Step:     step,
		Body:     body,
	}, nil
}

func (p *parser) parseForEachLoop() (Stmt, error) {
	kw := p.eat()

	ident, err := p.expect(token.Identifier, "expected loop variable after drift")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.AngleOpen, "expected '<<' before iterable")
	if err != nil {
		return nil, err
	}

	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.AngleClose, "expected '>>' after iterable")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("drift"); err != nil {
		return nil, err
	}

	return &ForEachLoop{
		Position: positionOf(kw),
		Iterator: ident.Literal,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *parser) parseFunctionDeclaration() (Stmt, error) {
	kw := p.eat()

	name, err := p.expect(token.Identifier, "expected function name after conjure")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.AngleOpen, "expected '<<' before parameter list")
	if err != nil {
		return nil, err
	}

	var params []string
	if !p.is(token.AngleClose) {
		for {
			param, err := p.expect(token.Identifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Literal)

			if !p.is(token.Comma) {
				break
			}
			p.eat()
		}
	}

	_, err = p.expect(token.AngleClose, "expected '>>' after parameter list")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("conjure"); err != nil {
		return nil, err
	}

	return &FunctionDeclaration{
		Position:   positionOf(kw),
		Name:       name.Literal,
		Parameters: params,
		Body:       body,
	}, nil
}

func (p *parser) parseReturnStatement() (Stmt, error) {
	kw := p.eat()

	ret := &ReturnStatement{Position: positionOf(kw)}
	if !p.is(token.Tilde) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ret.Argument = arg
	}

	if err := p.expectTerminator("zipback"); err != nil {
		return nil, err
	}

	return ret, nil
}

func (p *parser) parseBlockStatement() (Stmt, error) {
	kw := p.eat()

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("nest"); err != nil {
		return nil, err
	}

	return &BlockStatement{Position: positionOf(kw), Body: body}, nil
}

func (p *parser) parseBlock() ([]Stmt, error) {
	_, err := p.expect(token.OpenBracket, "expected '[' to open block")
	if err != nil {
		return nil, err
	}

	var body []Stmt
	for !p.is(token.CloseBracket) {
		if p.atEOF() {
			return nil, p.unexpected(token.CloseBracket.String(), "unclosed block")
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.eat()

	return body, nil
}

func (p *parser) parseExprStatement() (Stmt, error) {
	start := p.at()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectTerminator("expression statement"); err != nil {
		return nil, err
	}

	return &ExprStatement{Position: positionOf(start), Expr: expr}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseAssignmentExpr()
}

func (p *parser) parseAssignmentExpr() (Expr, error) {
	left, err := p.parseBinaryTier(0)
	if err != nil {
		return nil, err
	}

	if !p.is(token.Arrow) {
		return left, nil
	}

	arrow := p.eat()
	value, err := p.parseAssignmentExpr()
	if err != nil {
		return nil, err
	}

	return &AssignmentExpr{Position: positionOf(arrow), Assignee: left, Value: value}, nil
}

func (p *parser) parseBinaryTier(tier int) (Expr, error) {
	if tier == len(binaryTiers) {
		return p.parseNotExpr()
	}

	left, err := p.parseBinaryTier(tier + 1)
	if err != nil {
		return nil, err
	}

	for p.is(binaryTiers[tier]...) {
		opTok := p.eat()
		op, err := operatorFor(opTok.Kind)
		if err != nil {
			return nil, positionOf(opTok).WrapError(err)
		}

		right, err := p.parseBinaryTier(tier + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Position: positionOf(opTok),
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}

	return left, nil
}

func (p *parser) parseNotExpr() (Expr, error) {
	if !p.is(token.Not) {
		return p.parsePostfixExpr()
	}

	tok := p.eat()
	arg, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{Position: positionOf(tok), Operator: Not, Argument: arg}, nil
}

func (p *parser) parsePostfixExpr() (Expr, error) {
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}

	for p.is(token.Dot) {
		dot := p.eat()

		switch p.at().Kind {
		case token.Number:
			idx, err := p.parseNumber(p.eat())
			if err != nil {
				return nil, err
			}
			expr = &IndexExpr{Position: positionOf(dot), Array: expr, Index: idx}
		case token.OpenParen:
			p.eat()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			_, err = p.expect(token.CloseParen, "expected ')' after index expression")
			if err != nil {
				return nil, err
			}
			expr = &IndexExpr{Position: positionOf(dot), Array: expr, Index: idx}
		case token.Identifier, token.String:
			key := p.eat()
			expr = &ObjectAccess{
				Position: positionOf(dot),
				Object:   expr,
				Key:      &StringLiteral{Position: positionOf(key), Value: key.Literal},
			}
		default:
			return nil, p.unexpected("index or property name", "invalid access after '.'")
		}
	}

	if p.is(token.Pipe) {
		pipe := p.eat()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}

		expr = &CallExpr{Position: positionOf(pipe), Callee: expr, Arguments: args}
	}

	return expr, nil
}

func (p *parser) parseArguments() ([]Expr, error) {
	if p.is(token.Tilde, token.CloseParen, token.CloseBracket, token.CloseBrace,
		token.AngleClose, token.Comma, token.Semicolon, token.Then, token.OrElse, token.EOF) {
		return nil, nil
	}

	var args []Expr
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if !p.is(token.Comma) {
			return args, nil
		}
		p.eat()
	}
}

func (p *parser) parsePrimaryExpr() (Expr, error) {
	tok := p.at()

	switch tok.Kind {
	case token.Identifier:
		p.eat()
		return &Identifier{Position: positionOf(tok), Symbol: tok.Literal}, nil
	case token.Number:
		p.eat()
		return p.parseNumber(tok)
	case token.Boolean:
		p.eat()
		return &BooleanLiteral{Position: positionOf(tok), Value: tok.Literal == "yup"}, nil
	case token.Null:
		p.eat()
		return &NullLiteral{Position: positionOf(tok)}, nil
	case token.String:
		p.eat()
		return &StringLiteral{Position: positionOf(tok), Value: tok.Literal}, nil
	case token.OpenParen:
		p.eat()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.CloseParen, "expected closing parenthesis")
		if err != nil {
			return nil, err
		}
		return expr, nil
	case token.OpenBracket:
		return p.parseArrayLiteral()
	case token.OpenBrace:
		return p.parseObjectLiteral()
	default:
		return nil, p.unexpected("expression", "unexpected token found during parsing")
	}
}

func (p *parser) parseNumber(tok token.Token) (Expr, error) {
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, positionOf(tok).WrapError(fmt.Errorf("invalid number %q: %w", tok.Literal, err))
	}

	return &NumericLiteral{Position: positionOf(tok), Value: val}, nil
}

func (p *parser) parseArrayLiteral() (Expr, error) {
	open := p.eat()

	arr := &ArrayLiteral{Position: positionOf(open)}
	if p.is(token.CloseBracket) {
		p.eat()
		return arr, nil
	}

	for {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)

		if !p.is(token.Comma) {
			break
		}
		p.eat()
	}

	_, err := p.expect(token.CloseBracket, "expected ']' to close array literal")
	if err != nil {
		return nil, err
	}

	return arr, nil
}

func (p *parser) parseObjectLiteral() (Expr, error) {
	open := p.eat()

	obj := &ObjectLiteral{Position: positionOf(open)}
	for !p.is(token.CloseBrace) {
		if !p.is(token.Identifier, token.String) {
			return nil, p.unexpected("property key", "invalid object literal")
		}
		key := p.eat()

		_, err := p.expect(token.FatArrow, "expected '=>' after property key")
		if err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		obj.Properties = append(obj.Properties, Property{Key: key.Literal, Value: value})

		if !p.is(token.Comma, token.Semicolon) {
			break
		}
		p.eat()
	}

	_, err := p.expect(token.CloseBrace, "expected '}' to close object literal")
	if err != nil {
		return nil, err
	}

	return obj, nil
}
