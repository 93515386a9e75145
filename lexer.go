// lexer.go: source text -> token stream
package tong

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	COMMA    // ","
	COLON    // ":"
	DOT      // "."
	PIPE     // "|"
	OROR     // "||"
	AMP      // "&"
	ARROW    // "->"
	BACKSLASH

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	BANG // "!"

	// Literals & identifiers
	IDENT
	STRING
	INT
	FLOAT

	// Keywords
	LET
	VAR
	FN
	DEF
	TRUE
	FALSE
	IF
	RETURN
	ELSE
	WHILE
	PARALLEL
	DATA
	MATCH
	IN
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for number/string literals
	Line    int         // 1-based
	Col     int         // 1-based
}

// keywords map
var keywords = map[string]TokenType{
	"let":      LET,
	"var":      VAR,
	"fn":       FN,
	"def":      DEF,
	"true":     TRUE,
	"false":    FALSE,
	"if":       IF,
	"return":   RETURN,
	"else":     ELSE,
	"while":    WHILE,
	"parallel": PARALLEL,
	"data":     DATA,
	"match":    MATCH,
	"in":       IN,
}

var tokenNames = map[TokenType]string{
	EOF: "end of input", LPAREN: "'('", RPAREN: "')'", LBRACE: "'{'",
	RBRACE: "'}'", LBRACKET: "'['", RBRACKET: "']'", COMMA: "','",
	COLON: "':'", DOT: "'.'", PIPE: "'|'", OROR: "'||'", AMP: "'&'",
	ARROW: "'->'", BACKSLASH: `'\'`, PLUS: "'+'", MINUS: "'-'",
	STAR: "'*'", SLASH: "'/'", PERCENT: "'%'", ASSIGN: "'='", EQ: "'=='",
	NEQ: "'!='", LESS: "'<'", LESS_EQ: "'<='", GREATER: "'>'",
	GREATER_EQ: "'>='", BANG: "'!'", IDENT: "identifier",
	STRING: "string", INT: "int", FLOAT: "float",
	LET: "'let'", VAR: "'var'", FN: "'fn'", DEF: "'def'", TRUE: "'true'",
	FALSE: "'false'", IF: "'if'", RETURN: "'return'", ELSE: "'else'",
	WHILE: "'while'", PARALLEL: "'parallel'", DATA: "'data'",
	MATCH: "'match'", IN: "'in'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column of cur
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  1,
	}
}

// ----- errors -----

type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- low-level cursor -----

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if b, ok := l.peekN(1); ok && b == '/' {
				for {
					b2, ok2 := l.peek()
					if !ok2 || b2 == '\n' {
						break
					}
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
		l.start = l.cur
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- scanners -----

// scanString parses a double-quoted string literal. No escape sequences and
// no embedded newlines, matching the language definition.
func (l *Lexer) scanString() (string, error) {
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			return "", l.err("string was not terminated")
		}
		l.advance()
		if ch == '"' {
			return l.src[l.start+1 : l.cur-1], nil
		}
	}
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses an integer, or a float of the form digits '.' digits.
func (l *Lexer) scanNumber() (TokenType, interface{}, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	// Fractional part requires a digit after the dot; a bare trailing dot
	// stays a DOT token for property access.
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // '.'
			for {
				b3, ok3 := l.peek()
				if !ok3 || !isDigit(b3) {
					break
				}
				l.advance()
			}
			f, convErr := strconv.ParseFloat(l.src[l.start:l.cur], 64)
			if convErr != nil {
				return ILLEGAL, nil, l.err("invalid float literal")
			}
			return FLOAT, f, nil
		}
	}
	v, convErr := strconv.ParseInt(l.src[l.start:l.cur], 10, 64)
	if convErr != nil {
		return ILLEGAL, nil, l.err("invalid integer literal")
	}
	return INT, v, nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespaceAndComments()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LPAREN, nil), nil
	case ')':
		return l.addToken(RPAREN, nil), nil
	case '{':
		return l.addToken(LBRACE, nil), nil
	case '}':
		return l.addToken(RBRACE, nil), nil
	case '[':
		return l.addToken(LBRACKET, nil), nil
	case ']':
		return l.addToken(RBRACKET, nil), nil
	case ',':
		return l.addToken(COMMA, nil), nil
	case ':':
		return l.addToken(COLON, nil), nil
	case '.':
		return l.addToken(DOT, nil), nil
	case '+':
		return l.addToken(PLUS, nil), nil
	case '*':
		return l.addToken(STAR, nil), nil
	case '/':
		return l.addToken(SLASH, nil), nil
	case '%':
		return l.addToken(PERCENT, nil), nil
	case '&':
		return l.addToken(AMP, nil), nil
	case '\\':
		return l.addToken(BACKSLASH, nil), nil
	case '|':
		if b, ok := l.peek(); ok && b == '|' {
			l.advance()
			return l.addToken(OROR, nil), nil
		}
		return l.addToken(PIPE, nil), nil
	case '-':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			return l.addToken(ARROW, nil), nil
		}
		return l.addToken(MINUS, nil), nil
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, nil), nil
		}
		return l.addToken(ASSIGN, nil), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, nil), nil
		}
		return l.addToken(BANG, nil), nil
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ, nil), nil
		}
		return l.addToken(LESS, nil), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, nil), nil
		}
		return l.addToken(GREATER, nil), nil
	case '"':
		text, err := l.scanString()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(STRING, text), nil
	}

	if isDigit(ch) {
		// step back so scanNumber sees the whole run
		l.cur = l.start
		l.col = l.tokStartCol
		tt, lit, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(tt, lit), nil
	}

	if isAlpha(ch) {
		l.cur = l.start
		l.col = l.tokStartCol
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			return l.addToken(tt, nil), nil
		}
		return l.addToken(IDENT, lex), nil
	}

	return Token{}, l.err(fmt.Sprintf("unexpected character near %q", string(ch)))
}

// Scan tokenizes the entire source and returns tokens (EOF excluded).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens[:len(l.tokens)-1], nil
		}
	}
}

// Lex is a convenience wrapper around NewLexer(src).Scan().
func Lex(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}
