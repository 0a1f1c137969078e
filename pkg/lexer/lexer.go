package lexer

import (
	"fmt"
	"strings"

	"dumblang/interpreter-go/pkg/diag"
)

type TokenType int

const (
	EOF TokenType = iota

	// Literals & identifiers
	Ident
	Number
	String

	// Operators
	Plus
	Minus
	Star
	Slash
	Assign
	Eq
	NotEq
	Less
	LessEq
	Greater
	GreaterEq

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon

	// Keywords
	KwIf
	KwElse
	KwWhile
	KwReturn
)

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	Ident:     "identifier",
	Number:    "number",
	String:    "string",
	Plus:      "'+'",
	Minus:     "'-'",
	Star:      "'*'",
	Slash:     "'/'",
	Assign:    "'='",
	Eq:        "'=='",
	NotEq:     "'!='",
	Less:      "'<'",
	LessEq:    "'<='",
	Greater:   "'>'",
	GreaterEq: "'>='",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Comma:     "','",
	Semicolon: "';'",
	KwIf:      "'if'",
	KwElse:    "'else'",
	KwWhile:   "'while'",
	KwReturn:  "'return'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
}

var singleCharTokens = map[byte]TokenType{
	'+': Plus, '-': Minus, '*': Star, '/': Slash,
	'(': LParen, ')': RParen, '{': LBrace, '}': RBrace,
	'[': LBracket, ']': RBracket, ',': Comma, ';': Semicolon,
}

// Token is a lexical token with its raw text and 1-based source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

// Scan tokenizes source text in full, appending a trailing EOF token.
// The first lexical problem aborts the scan with a SyntaxError.
func Scan(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	return lx.scan()
}

type lexer struct {
	src  string
	cur  int
	line int
	col  int
}

func (lx *lexer) scan() ([]Token, error) {
	var tokens []Token
	for {
		lx.skipTrivia()
		if lx.cur >= len(lx.src) {
			tokens = append(tokens, Token{Type: EOF, Line: lx.line, Col: lx.col})
			return tokens, nil
		}
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// skipTrivia consumes whitespace and '#' line comments.
func (lx *lexer) skipTrivia() {
	for lx.cur < len(lx.src) {
		switch lx.src[lx.cur] {
		case ' ', '\t', '\r':
			lx.advance()
		case '\n':
			lx.advance()
		case '#':
			for lx.cur < len(lx.src) && lx.src[lx.cur] != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	line, col := lx.line, lx.col
	c := lx.src[lx.cur]

	switch {
	case isDigit(c):
		return lx.number(line, col)
	case isIdentStart(c):
		return lx.identifier(line, col)
	case c == '"' || c == '\'':
		return lx.stringLiteral(line, col, c)
	}

	switch c {
	case '=':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			return Token{Type: Eq, Lexeme: "==", Line: line, Col: col}, nil
		}
		return Token{Type: Assign, Lexeme: "=", Line: line, Col: col}, nil
	case '!':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			return Token{Type: NotEq, Lexeme: "!=", Line: line, Col: col}, nil
		}
		return Token{}, diag.At(diag.SyntaxError, line, col, "unexpected character '!'")
	case '<':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			return Token{Type: LessEq, Lexeme: "<=", Line: line, Col: col}, nil
		}
		return Token{Type: Less, Lexeme: "<", Line: line, Col: col}, nil
	case '>':
		lx.advance()
		if lx.peek() == '=' {
			lx.advance()
			return Token{Type: GreaterEq, Lexeme: ">=", Line: line, Col: col}, nil
		}
		return Token{Type: Greater, Lexeme: ">", Line: line, Col: col}, nil
	}

	if tt, ok := singleCharTokens[c]; ok {
		lx.advance()
		return Token{Type: tt, Lexeme: string(c), Line: line, Col: col}, nil
	}

	return Token{}, diag.At(diag.SyntaxError, line, col, "unexpected character %q", string(c))
}

func (lx *lexer) number(line, col int) (Token, error) {
	start := lx.cur
	for lx.cur < len(lx.src) && isDigit(lx.src[lx.cur]) {
		lx.advance()
	}
	if lx.cur < len(lx.src) && lx.src[lx.cur] == '.' {
		lx.advance()
		if lx.cur >= len(lx.src) || !isDigit(lx.src[lx.cur]) {
			return Token{}, diag.At(diag.SyntaxError, line, col, "malformed number %q", lx.src[start:lx.cur])
		}
		for lx.cur < len(lx.src) && isDigit(lx.src[lx.cur]) {
			lx.advance()
		}
	}
	return Token{Type: Number, Lexeme: lx.src[start:lx.cur], Line: line, Col: col}, nil
}

func (lx *lexer) identifier(line, col int) (Token, error) {
	start := lx.cur
	for lx.cur < len(lx.src) && isIdentPart(lx.src[lx.cur]) {
		lx.advance()
	}
	word := lx.src[start:lx.cur]
	if kw, ok := keywords[word]; ok {
		return Token{Type: kw, Lexeme: word, Line: line, Col: col}, nil
	}
	return Token{Type: Ident, Lexeme: word, Line: line, Col: col}, nil
}

// stringLiteral consumes a quoted run with no escape sequences; the literal
// ends at the matching quote and may not span lines.
func (lx *lexer) stringLiteral(line, col int, quote byte) (Token, error) {
	lx.advance() // opening quote
	var b strings.Builder
	for lx.cur < len(lx.src) {
		c := lx.src[lx.cur]
		if c == quote {
			lx.advance()
			return Token{Type: String, Lexeme: b.String(), Line: line, Col: col}, nil
		}
		if c == '\n' {
			return Token{}, diag.At(diag.SyntaxError, line, col, "unterminated string literal")
		}
		b.WriteByte(c)
		lx.advance()
	}
	return Token{}, diag.At(diag.SyntaxError, line, col, "unterminated string literal")
}

func (lx *lexer) peek() byte {
	if lx.cur >= len(lx.src) {
		return 0
	}
	return lx.src[lx.cur]
}

func (lx *lexer) advance() {
	if lx.cur < len(lx.src) {
		if lx.src[lx.cur] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.cur++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
