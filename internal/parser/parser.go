// Package parser implements the recursive-descent grammar driver:
// hand-rolled rule methods, one per production in spec's grammar,
// each consuming tokens from the lexer with one-token lookahead and
// driving the ir.Builder's semantic actions as it goes. A rule method
// returns false the instant it fails to match at a required position;
// that failure unwinds every enclosing rule with no partial recovery,
// exactly as spec's error-propagation model describes.
package parser

import (
	"pl241/internal/diag"
	"pl241/internal/ir"
	"pl241/internal/lexer"
	"pl241/internal/token"
)

// Parser drives a Lexer and an ir.Builder together.
type Parser struct {
	lex     *lexer.Lexer
	cur     token.Token
	builder *ir.Builder
	diag    *diag.Reporter
}

// New creates a parser over src. reporter receives every
// SemanticWarning the builder emits while parsing.
func New(src []byte, reporter *diag.Reporter) *Parser {
	lex := lexer.New(src)
	p := &Parser{lex: lex, diag: reporter}
	p.builder = ir.NewBuilder(reporter, func(id int) string {
		names := lex.Idents()
		if id >= 0 && id < len(names) {
			return names[id]
		}
		return "?"
	})
	p.advance()
	return p
}

// Builder returns the ir.Builder that accumulated the program, for
// the caller to run post-passes and drive emitters against.
func (p *Parser) Builder() *ir.Builder { return p.builder }

// Pos returns the source position of the current lookahead token. A
// failed rule never advances past the token that broke the match, so
// after Parse returns false, Pos reports where parsing stopped.
func (p *Parser) Pos() token.Position { return p.cur.Pos }

// Parse runs the top-level grammar rule, `computation`. It reports
// false on any parse failure; the caller is responsible for printing
// the Syntax Error banner (spec §6) — this package never does that
// itself, since LSP callers want the failure without the banner.
func (p *Parser) Parse() bool {
	return p.computation()
}

func (p *Parser) advance() { p.cur = p.lex.Next() }

func (p *Parser) check(t token.Type) bool { return p.cur.Type == t }

// match consumes the current token and advances if it has type t,
// reporting whether it did.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func startsExpression(t token.Type) bool {
	switch t {
	case token.NUMBER, token.IDENT, token.LPAREN, token.CALL:
		return true
	}
	return false
}

func isRelOp(t token.Type) bool {
	switch t {
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		return true
	}
	return false
}

// computation = 'main' ['var' varDecl] {funcDecl} '{' statSeq '}' '.'
func (p *Parser) computation() bool {
	if !p.match(token.MAIN) {
		return false
	}
	if p.match(token.VAR) {
		if !p.varDecl() {
			return false
		}
	}
	for p.check(token.VOID) || p.check(token.FUNCTION) {
		if !p.funcDecl() {
			return false
		}
	}
	if !p.match(token.LBRACE) {
		return false
	}
	if !p.statSeq() {
		return false
	}
	if !p.match(token.RBRACE) {
		return false
	}
	if !p.match(token.PERIOD) {
		return false
	}
	p.builder.EmitEnd()
	return true
}

// varDecl = ident {',' ident} ';'
func (p *Parser) varDecl() bool {
	if !p.check(token.IDENT) {
		return false
	}
	p.builder.DeclareVar(p.cur.Ident)
	p.advance()
	for p.match(token.COMMA) {
		if !p.check(token.IDENT) {
			return false
		}
		p.builder.DeclareVar(p.cur.Ident)
		p.advance()
	}
	return p.match(token.SEMICOLON)
}

// funcDecl = ['void'] 'function' ident '(' [ident {',' ident}] ')' ';'
//            ['var' varDecl] '{' [statSeq] '}' ';'
func (p *Parser) funcDecl() bool {
	p.match(token.VOID)
	if !p.match(token.FUNCTION) {
		return false
	}
	if !p.check(token.IDENT) {
		return false
	}
	name := p.cur.Ident
	p.advance()
	p.builder.DeclareFunction(name)

	if !p.match(token.LPAREN) {
		return false
	}
	var params []int
	if p.check(token.IDENT) {
		params = append(params, p.cur.Ident)
		p.advance()
		for p.match(token.COMMA) {
			if !p.check(token.IDENT) {
				return false
			}
			params = append(params, p.cur.Ident)
			p.advance()
		}
	}
	if !p.match(token.RPAREN) {
		return false
	}
	if !p.match(token.SEMICOLON) {
		return false
	}
	p.builder.DeclareFormalParams(params)

	if p.match(token.VAR) {
		if !p.varDecl() {
			return false
		}
	}
	if !p.match(token.LBRACE) {
		return false
	}
	if !p.check(token.RBRACE) {
		if !p.statSeq() {
			return false
		}
	}
	if !p.match(token.RBRACE) {
		return false
	}
	if !p.match(token.SEMICOLON) {
		return false
	}
	p.builder.EndFunction()
	return true
}

// statSeq = statement {';' statement}
func (p *Parser) statSeq() bool {
	if !p.statement() {
		return false
	}
	for p.match(token.SEMICOLON) {
		if !p.statement() {
			return false
		}
	}
	return true
}

// statement = assignment | funcCall | ifStmt | whileStmt | returnStmt
func (p *Parser) statement() bool {
	switch p.cur.Type {
	case token.LET:
		return p.assignment()
	case token.CALL:
		_, ok := p.funcCall()
		return ok
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.RETURN:
		return p.returnStmt()
	}
	return false
}

// assignment = 'let' ident '<-' expression
func (p *Parser) assignment() bool {
	if !p.match(token.LET) {
		return false
	}
	if !p.check(token.IDENT) {
		return false
	}
	v := p.cur.Ident
	p.advance()
	if !p.match(token.ARROW) {
		return false
	}
	expr, ok := p.expression()
	if !ok {
		return false
	}
	p.builder.Assign(v, expr)
	return true
}

// expression = term {('+'|'-') term}
func (p *Parser) expression() (ir.Operand, bool) {
	left, ok := p.term()
	if !ok {
		return ir.Operand{}, false
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		kind := ir.Add
		if p.cur.Type == token.MINUS {
			kind = ir.Sub
		}
		p.advance()
		right, ok := p.term()
		if !ok {
			return ir.Operand{}, false
		}
		left = p.builder.Compute(kind, left, right)
	}
	return left, true
}

// term = factor {('*'|'/') factor}
func (p *Parser) term() (ir.Operand, bool) {
	left, ok := p.factor()
	if !ok {
		return ir.Operand{}, false
	}
	for p.check(token.STAR) || p.check(token.SLASH) {
		kind := ir.Mul
		if p.cur.Type == token.SLASH {
			kind = ir.Div
		}
		p.advance()
		right, ok := p.factor()
		if !ok {
			return ir.Operand{}, false
		}
		left = p.builder.Compute(kind, left, right)
	}
	return left, true
}

// factor = number | ident | '(' expression ')' | funcCall
func (p *Parser) factor() (ir.Operand, bool) {
	switch p.cur.Type {
	case token.NUMBER:
		v := p.cur.Num
		p.advance()
		return ir.ConstOperand(v), true
	case token.IDENT:
		v := p.cur.Ident
		p.advance()
		return ir.VarOperand(v), true
	case token.LPAREN:
		p.advance()
		expr, ok := p.expression()
		if !ok {
			return ir.Operand{}, false
		}
		if !p.match(token.RPAREN) {
			return ir.Operand{}, false
		}
		return expr, true
	case token.CALL:
		return p.funcCall()
	}
	return ir.Operand{}, false
}

// funcCall = 'call' ident [ '(' [expression {',' expression}] ')' ]
func (p *Parser) funcCall() (ir.Operand, bool) {
	if !p.match(token.CALL) {
		return ir.Operand{}, false
	}
	if !p.check(token.IDENT) {
		return ir.Operand{}, false
	}
	callee := p.cur.Ident
	p.advance()

	var args []ir.Operand
	if p.match(token.LPAREN) {
		if !p.check(token.RPAREN) {
			expr, ok := p.expression()
			if !ok {
				return ir.Operand{}, false
			}
			args = append(args, expr)
			for p.match(token.COMMA) {
				expr, ok := p.expression()
				if !ok {
					return ir.Operand{}, false
				}
				args = append(args, expr)
			}
		}
		if !p.match(token.RPAREN) {
			return ir.Operand{}, false
		}
	}
	return p.builder.EmitCall(callee, args), true
}

// ifStmt = 'if' relation 'then' statSeq ['else' statSeq] 'fi'
func (p *Parser) ifStmt() bool {
	if !p.match(token.IF) {
		return false
	}
	branchID, ok := p.relation()
	if !ok {
		return false
	}
	if !p.match(token.THEN) {
		return false
	}
	p.builder.BeginIf(branchID)
	if !p.statSeq() {
		return false
	}
	if p.match(token.ELSE) {
		p.builder.ElseIf()
		if !p.statSeq() {
			return false
		}
	}
	if !p.match(token.FI) {
		return false
	}
	p.builder.EndIf()
	return true
}

// whileStmt = 'while' relation 'do' statSeq 'od'
func (p *Parser) whileStmt() bool {
	if !p.match(token.WHILE) {
		return false
	}
	p.builder.BeginWhile()
	branchID, ok := p.relation()
	if !ok {
		return false
	}
	if !p.match(token.DO) {
		return false
	}
	p.builder.WhileBody(branchID)
	if !p.statSeq() {
		return false
	}
	if !p.match(token.OD) {
		return false
	}
	p.builder.EndWhile()
	return true
}

// returnStmt = 'return' [expression]
func (p *Parser) returnStmt() bool {
	if !p.match(token.RETURN) {
		return false
	}
	if startsExpression(p.cur.Type) {
		expr, ok := p.expression()
		if !ok {
			return false
		}
		p.builder.EmitReturn(expr, true)
	} else {
		p.builder.EmitReturn(ir.Operand{}, false)
	}
	return true
}

// relation = expression relOp expression
func (p *Parser) relation() (branchID int, ok bool) {
	left, ok := p.expression()
	if !ok {
		return 0, false
	}
	if !isRelOp(p.cur.Type) {
		return 0, false
	}
	relOp := p.cur.Type
	p.advance()
	right, ok := p.expression()
	if !ok {
		return 0, false
	}
	_, branchID = p.builder.EmitRelation(relOp, left, right)
	return branchID, true
}
