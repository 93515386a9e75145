// parser.go: token stream -> typed syntax tree
//
// Recursive descent with single-token lookahead plus two targeted
// lookahead scans: one to spot `name[i] = v` statements, one to capture
// raw function parameter spans before deciding whether a definition uses
// simple parameters or patterns. The parser owns the table of data
// constructors seen so far; that table, with an uppercase-name fallback,
// disambiguates constructor calls from function calls.
package tong

import (
	"errors"
	"fmt"
)

// ParseError is a location-tagged parse failure. Incomplete marks errors
// caused by running out of tokens in interactive mode, which the REPL
// treats as "keep reading lines".
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by truncated
// interactive input.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

type parser struct {
	toks        []Token
	i           int
	interactive bool
	knownCtors  map[string]int // constructor name -> arity
}

// Parse turns a token stream into a Program.
func Parse(tokens []Token) (*Program, error) {
	p := &parser{toks: tokens, knownCtors: map[string]int{}}
	return p.parseProgram()
}

// ParseSource lexes and parses a full source text.
func ParseSource(src string) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseSourceInteractive is ParseSource with incomplete-input detection
// for REPL continuation.
func ParseSourceInteractive(src string) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: tokens, interactive: true, knownCtors: map[string]int{}}
	return p.parseProgram()
}

// ----- token helpers -----

func (p *parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) peekIs(tt TokenType) bool {
	t, ok := p.peek()
	return ok && t.Type == tt
}

func (p *parser) peekNIs(n int, tt TokenType) bool {
	idx := p.i + n
	return idx < len(p.toks) && p.toks[idx].Type == tt
}

func (p *parser) peekText() string {
	if t, ok := p.peek(); ok {
		return t.Lexeme
	}
	return ""
}

func (p *parser) bump() Token {
	t := p.toks[p.i]
	p.i++
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.peekIs(tt) {
		p.i++
		return true
	}
	return false
}

func (p *parser) errHere(msg string) error {
	if t, ok := p.peek(); ok {
		return &ParseError{Line: t.Line, Col: t.Col, Msg: msg}
	}
	line, col := 1, 1
	if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		line, col = last.Line, last.Col+len(last.Lexeme)
	}
	return &ParseError{Line: line, Col: col, Msg: msg, Incomplete: p.interactive}
}

func (p *parser) need(tt TokenType, what string) (Token, error) {
	if t, ok := p.peek(); ok {
		if t.Type == tt {
			p.i++
			return t, nil
		}
		return Token{}, &ParseError{
			Line: t.Line, Col: t.Col,
			Msg: fmt.Sprintf("expected %s in %s, got %s", tt, what, t.Type),
		}
	}
	err := p.errHere(fmt.Sprintf("expected %s in %s, got end of input", tt, what)).(*ParseError)
	return Token{}, err
}

func (p *parser) eatIdent(what string) (string, error) {
	t, err := p.need(IDENT, what)
	if err != nil {
		return "", err
	}
	return t.Lexeme, nil
}

// ----- program & statements -----

func (p *parser) parseProgram() (*Program, error) {
	var stmts []Stmt
	for !p.atEnd() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &Program{Stmts: stmts}, nil
}

func (p *parser) parseBody(what string) ([]Stmt, error) {
	if _, err := p.need(LBRACE, what); err != nil {
		return nil, err
	}
	var body []Stmt
	for !p.peekIs(RBRACE) {
		if p.atEnd() {
			return nil, p.errHere(fmt.Sprintf("unterminated %s body", what))
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	p.bump() // '}'
	return body, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	switch {
	case p.peekIs(DATA):
		return p.parseDataDecl()
	case p.peekIs(LET) || p.peekIs(VAR):
		return p.parseLet()
	case p.peekIs(FN) || p.peekIs(DEF):
		return p.parseFn()
	case p.peekIs(PARALLEL):
		p.bump()
		body, err := p.parseBody("parallel")
		if err != nil {
			return nil, err
		}
		return &ParallelStmt{Body: body}, nil
	case p.peekIs(WHILE):
		p.bump()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBody("while")
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil
	case p.peekIs(RETURN):
		p.bump()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Val: e}, nil
	case p.peekIs(IF):
		p.bump()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		then, err := p.parseBody("if")
		if err != nil {
			return nil, err
		}
		var elseBody []Stmt
		if p.match(ELSE) {
			elseBody, err = p.parseBody("else")
			if err != nil {
				return nil, err
			}
		}
		return &IfStmt{Cond: cond, Then: then, Else: elseBody}, nil
	}

	if p.peekIs(IDENT) && p.peekText() == "print" && p.peekNIs(1, LPAREN) {
		p.bump() // print
		p.bump() // '('
		var args []Expr
		if !p.peekIs(RPAREN) {
			for {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RPAREN, "print"); err != nil {
			return nil, err
		}
		return &PrintStmt{Args: args}, nil
	}

	if p.peekIs(IDENT) && p.peekNIs(1, ASSIGN) {
		name := p.bump().Lexeme
		p.bump() // '='
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Name: name, Val: val}, nil
	}

	if p.peekIs(IDENT) && p.peekNIs(1, LBRACKET) {
		if groups, found := p.scanIndexAssign(); found {
			if groups != 1 {
				return nil, p.errHere("assignment to a nested index is not supported")
			}
			name := p.bump().Lexeme
			p.bump() // '['
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RBRACKET, "index assignment"); err != nil {
				return nil, err
			}
			p.bump() // '='
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &IndexAssignStmt{Name: name, Idx: idx, Val: val}, nil
		}
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{E: e}, nil
}

// scanIndexAssign looks ahead from an IDENT at '[' and reports whether a
// run of balanced bracket groups is followed by '='. Returns the group
// count so single-index assignments can be told apart from nested ones.
func (p *parser) scanIndexAssign() (int, bool) {
	j := p.i + 1
	groups := 0
	for j < len(p.toks) && p.toks[j].Type == LBRACKET {
		depth := 1
		j++
		for j < len(p.toks) && depth > 0 {
			switch p.toks[j].Type {
			case LBRACKET:
				depth++
			case RBRACKET:
				depth--
			}
			j++
		}
		if depth != 0 {
			return 0, false
		}
		groups++
	}
	if groups > 0 && j < len(p.toks) && p.toks[j].Type == ASSIGN {
		return groups, true
	}
	return 0, false
}

func (p *parser) parseDataDecl() (Stmt, error) {
	p.bump() // 'data'
	typeName, err := p.eatIdent("data declaration")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "data declaration"); err != nil {
		return nil, err
	}
	var ctors []CtorDecl
	for {
		cname, err := p.eatIdent("constructor")
		if err != nil {
			return nil, err
		}
		// Arity is the count of immediately following bare identifiers.
		arity := 0
		for p.peekIs(IDENT) {
			arity++
			p.bump()
		}
		p.knownCtors[cname] = arity
		ctors = append(ctors, CtorDecl{Name: cname, Arity: arity})
		if !p.match(PIPE) {
			break
		}
	}
	return &DataDeclStmt{TypeName: typeName, Ctors: ctors}, nil
}

func (p *parser) parseLet() (Stmt, error) {
	p.bump() // 'let' or 'var'
	if p.match(LPAREN) {
		var names []string
		if !p.peekIs(RPAREN) {
			for {
				n, err := p.eatIdent("destructuring let")
				if err != nil {
					return nil, err
				}
				names = append(names, n)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RPAREN, "destructuring let"); err != nil {
			return nil, err
		}
		if _, err := p.need(ASSIGN, "destructuring let"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &DestructureStmt{Names: names, Val: val}, nil
	}
	name, err := p.eatIdent("let")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "let"); err != nil {
		return nil, err
	}
	// `let x = import("name")` binds a builtin module.
	if p.peekIs(IDENT) && p.peekText() == "import" && p.peekNIs(1, LPAREN) && p.peekNIs(2, STRING) && p.peekNIs(3, RPAREN) {
		p.bump() // import
		p.bump() // '('
		module := p.bump().Literal.(string)
		p.bump() // ')'
		return &ImportStmt{Name: name, Module: module}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LetStmt{Name: name, Val: val}, nil
}

// ----- function definitions -----

// ctorLike applies the two-tier constructor test: the semantic table of
// declared constructors first, then the capitalization fallback (longer
// than one character, uppercase first letter).
func (p *parser) ctorLike(name string) bool {
	if _, ok := p.knownCtors[name]; ok {
		return true
	}
	return len(name) > 1 && name[0] >= 'A' && name[0] <= 'Z'
}

func (p *parser) parseFn() (Stmt, error) {
	p.bump() // 'fn' or 'def'
	name, err := p.eatIdent("function definition")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "function definition"); err != nil {
		return nil, err
	}

	// Capture raw parameter token spans, balancing parentheses, so each
	// span can be classified as a simple identifier or a full pattern.
	type span struct{ start, end int }
	var rawParams []span
	if !p.peekIs(RPAREN) {
		for {
			start := p.i
			depth := 0
			for !p.atEnd() {
				t, _ := p.peek()
				if depth == 0 && (t.Type == COMMA || t.Type == RPAREN) {
					break
				}
				switch t.Type {
				case LPAREN:
					depth++
				case RPAREN:
					depth--
				}
				p.bump()
			}
			rawParams = append(rawParams, span{start, p.i})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "function definition"); err != nil {
		return nil, err
	}

	var simple []string
	var patterns []Pattern
	allSimple := true
	for _, sp := range rawParams {
		if sp.start == sp.end {
			continue
		}
		if sp.end-sp.start == 1 {
			tok := p.toks[sp.start]
			if tok.Type == IDENT && tok.Lexeme != "_" {
				semanticCtor := false
				if a, ok := p.knownCtors[tok.Lexeme]; ok && a == 0 {
					semanticCtor = true
				}
				heuristicCtor := len(tok.Lexeme) > 1 && tok.Lexeme[0] >= 'A' && tok.Lexeme[0] <= 'Z'
				if semanticCtor || heuristicCtor {
					allSimple = false
					patterns = append(patterns, &CtorPat{Name: tok.Lexeme, Arity: 0})
				} else {
					simple = append(simple, tok.Lexeme)
					patterns = append(patterns, &BindPat{Name: tok.Lexeme})
				}
				continue
			}
		}
		allSimple = false
		sub := &parser{toks: p.toks[sp.start:sp.end], knownCtors: p.knownCtors}
		pat, err := sub.parsePattern()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pat)
	}

	var guard Expr
	if p.match(IF) {
		guard, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBody("function")
	if err != nil {
		return nil, err
	}

	if name == "main" && allSimple && len(simple) == 0 {
		return &FnMainStmt{Body: body}, nil
	}
	if allSimple {
		if guard != nil {
			return &FnGuardedStmt{Name: name, Params: simple, Guard: guard, Body: body}, nil
		}
		return &FnDefStmt{Name: name, Params: simple, Body: body}, nil
	}
	return &FnPatternStmt{Name: name, Patterns: patterns, Guard: guard, Body: body}, nil
}

// ----- patterns -----

func (p *parser) parsePattern() (Pattern, error) {
	if p.peekIs(IDENT) {
		name := p.bump().Lexeme
		if name == "_" {
			return &WildcardPat{}, nil
		}
		if name[0] >= 'A' && name[0] <= 'Z' {
			if p.match(LPAREN) {
				var subs []Pattern
				if !p.peekIs(RPAREN) {
					for {
						sp, err := p.parsePattern()
						if err != nil {
							return nil, err
						}
						subs = append(subs, sp)
						if !p.match(COMMA) {
							break
						}
					}
				}
				if _, err := p.need(RPAREN, "constructor pattern"); err != nil {
					return nil, err
				}
				return &CtorPat{Name: name, Arity: len(subs), Sub: subs}, nil
			}
			// Space-separated subpatterns, kept for backward compatibility:
			// `Just x`, `Node left right`. Terminated by any structural
			// boundary token.
			var subs []Pattern
			for {
				if p.peekIs(ARROW) || p.peekIs(COMMA) || p.peekIs(IF) ||
					p.peekIs(PIPE) || p.peekIs(RBRACE) || p.peekIs(RPAREN) {
					break
				}
				starts := p.peekIs(IDENT) || p.peekIs(INT) || p.peekIs(TRUE) ||
					p.peekIs(FALSE) || p.peekIs(LPAREN)
				if !starts {
					break
				}
				sp, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				subs = append(subs, sp)
			}
			return &CtorPat{Name: name, Arity: len(subs), Sub: subs}, nil
		}
		return &BindPat{Name: name}, nil
	}
	if p.match(LPAREN) {
		var subs []Pattern
		if !p.peekIs(RPAREN) {
			for {
				sp, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				subs = append(subs, sp)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RPAREN, "tuple pattern"); err != nil {
			return nil, err
		}
		return &TuplePat{Sub: subs}, nil
	}
	if p.peekIs(INT) {
		return &IntPat{Val: p.bump().Literal.(int64)}, nil
	}
	if p.match(TRUE) {
		return &BoolPat{Val: true}, nil
	}
	if p.match(FALSE) {
		return &BoolPat{Val: false}, nil
	}
	return nil, p.errHere("unsupported pattern")
}

// ----- expressions -----

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	node, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OROR) {
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: OpOr, Left: node, Right: rhs}
	}
	return node, nil
}

func (p *parser) parseAnd() (Expr, error) {
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.match(AMP) {
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: OpAnd, Left: node, Right: rhs}
	}
	return node, nil
}

func (p *parser) parseComparison() (Expr, error) {
	node, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(LESS):
			op = OpLt
		case p.match(LESS_EQ):
			op = OpLe
		case p.match(GREATER):
			op = OpGt
		case p.match(GREATER_EQ):
			op = OpGe
		default:
			return node, nil
		}
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, Left: node, Right: rhs}
	}
}

func (p *parser) parseEquality() (Expr, error) {
	node, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(EQ):
			op = OpEq
		case p.match(NEQ):
			op = OpNe
		default:
			return node, nil
		}
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, Left: node, Right: rhs}
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	node, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(PLUS):
			op = OpAdd
		case p.match(MINUS):
			op = OpSub
		default:
			return node, nil
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, Left: node, Right: rhs}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	node, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(STAR):
			op = OpMul
		case p.match(SLASH):
			op = OpDiv
		case p.match(PERCENT):
			op = OpMod
		default:
			return node, nil
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, Left: node, Right: rhs}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.match(MINUS) {
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNeg{Operand: e}, nil
	}
	if p.match(PLUS) {
		// unary '+' is a no-op
		return p.parseUnary()
	}
	if p.match(BANG) {
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNot{Operand: e}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.match(LBRACKET) {
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RBRACKET, "index"); err != nil {
			return nil, err
		}
		node = &Index{Target: node, Idx: idx}
	}
	return node, nil
}

func (p *parser) parseArgs(what string) ([]Expr, error) {
	var args []Expr
	if !p.peekIs(RPAREN) {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, what); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseAtom() (Expr, error) {
	// \x y -> expr
	if p.match(BACKSLASH) {
		var params []string
		for p.peekIs(IDENT) {
			params = append(params, p.bump().Lexeme)
		}
		if _, err := p.need(ARROW, "lambda"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: params, Body: body}, nil
	}
	// |x| expr
	if p.match(PIPE) {
		param, err := p.eatIdent("lambda parameter")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(PIPE, "lambda"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: []string{param}, Body: body}, nil
	}
	if p.match(LPAREN) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "parenthesized expression"); err != nil {
			return nil, err
		}
		return e, nil
	}
	if p.match(MATCH) {
		return p.parseMatch()
	}
	if p.peekIs(LBRACE) {
		p.bump()
		var stmts []Stmt
		for !p.peekIs(RBRACE) {
			if p.atEnd() {
				return nil, p.errHere("unterminated block expression")
			}
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
		p.bump() // '}'
		return &BlockExpr{Stmts: stmts}, nil
	}
	if p.peekIs(STRING) {
		return &StrLit{Val: p.bump().Literal.(string)}, nil
	}
	if p.peekIs(FLOAT) {
		return &FloatLit{Val: p.bump().Literal.(float64)}, nil
	}
	if p.peekIs(INT) {
		return &IntLit{Val: p.bump().Literal.(int64)}, nil
	}
	if p.match(TRUE) {
		return &BoolLit{Val: true}, nil
	}
	if p.match(FALSE) {
		return &BoolLit{Val: false}, nil
	}
	if p.match(LBRACKET) {
		return p.parseArrayOrComprehension()
	}
	if p.peekIs(IDENT) {
		return p.parseIdentExpr()
	}
	if t, ok := p.peek(); ok {
		return nil, &ParseError{
			Line: t.Line, Col: t.Col,
			Msg: fmt.Sprintf("unexpected token %s %q", t.Type, t.Lexeme),
		}
	}
	return nil, p.errHere("unexpected end of input")
}

func (p *parser) parseMatch() (Expr, error) {
	scrut, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "match"); err != nil {
		return nil, err
	}
	var arms []MatchArm
	for !p.peekIs(RBRACE) {
		if p.atEnd() {
			return nil, p.errHere("unterminated match expression")
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard Expr
		if p.match(IF) {
			guard, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.need(ARROW, "match arm"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.match(COMMA)
		arms = append(arms, MatchArm{Pat: pat, Guard: guard, Body: body})
	}
	p.bump() // '}'
	return &MatchExpr{Scrutinee: scrut, Arms: arms}, nil
}

// parseArrayOrComprehension is called after '[' has been consumed. If the
// first element is followed by '|', the construct is a list comprehension;
// otherwise it is a plain array.
func (p *parser) parseArrayOrComprehension() (Expr, error) {
	if p.match(RBRACKET) {
		return &ArrayLit{}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.match(PIPE) {
		var gens []Generator
		for {
			name, err := p.eatIdent("list comprehension generator")
			if err != nil {
				return nil, err
			}
			if !p.match(IN) {
				return nil, p.errHere("expected 'in' in list comprehension")
			}
			src, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			gens = append(gens, Generator{Name: name, Source: src})
			if p.match(COMMA) {
				if p.peekIs(IDENT) && p.peekNIs(1, IN) {
					continue
				}
				return nil, p.errHere("expected another '<ident> in <expr>' generator after comma")
			}
			break
		}
		var pred Expr
		if p.match(IF) {
			pred, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.need(RBRACKET, "list comprehension"); err != nil {
			return nil, err
		}
		return &ListComp{Elem: first, Generators: gens, Pred: pred}, nil
	}
	elems := []Expr{first}
	for p.match(COMMA) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.need(RBRACKET, "array literal"); err != nil {
		return nil, err
	}
	return &ArrayLit{Elems: elems}, nil
}

func (p *parser) parseIdentExpr() (Expr, error) {
	name := p.bump().Lexeme
	var node Expr = &Ident{Name: name}
	if p.match(LPAREN) {
		args, err := p.parseArgs("call")
		if err != nil {
			return nil, err
		}
		if p.ctorLike(name) {
			node = &CtorCall{Name: name, Args: args}
		} else {
			node = &Call{Callee: name, Args: args}
		}
	}
	for p.match(DOT) {
		member, err := p.eatIdent("property access")
		if err != nil {
			return nil, err
		}
		if p.match(LPAREN) {
			args, err := p.parseArgs("method call")
			if err != nil {
				return nil, err
			}
			node = &MethodCall{Target: node, Method: member, Args: args}
		} else {
			node = &Property{Target: node, Name: member}
		}
	}
	return node, nil
}
