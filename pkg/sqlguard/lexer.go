package sqlguard

import (
	"strings"
	"unicode"
)

// Lexer tokenizes SQLite statement text. It only needs to be precise enough
// to tell keywords apart from literals, quoted identifiers and comments.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// atEOF distinguishes a real end of input from an embedded NUL byte.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	if l.atEOF() {
		return Token{Type: TOKEN_EOF, Pos: pos}
	}

	var tok Token
	switch l.ch {
	case ';':
		tok = Token{Type: TOKEN_SEMICOLON, Literal: ";", Pos: pos}
	case '(':
		tok = Token{Type: TOKEN_LPAREN, Literal: "(", Pos: pos}
	case ')':
		tok = Token{Type: TOKEN_RPAREN, Literal: ")", Pos: pos}
	case ',':
		tok = Token{Type: TOKEN_COMMA, Literal: ",", Pos: pos}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_EQ, Literal: "==", Pos: pos}
		} else {
			tok = Token{Type: TOKEN_EQ, Literal: "=", Pos: pos}
		}
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = Token{Type: TOKEN_DOT, Literal: ".", Pos: pos}
	case '<', '>', '!', '|':
		literal := string(l.ch)
		switch next := l.peekChar(); {
		case next == '=', next == '>' && l.ch == '<', next == l.ch && l.ch != '!':
			l.readChar()
			literal += string(l.ch)
		}
		tok = Token{Type: TOKEN_OP, Literal: literal, Pos: pos}
	case '+', '-', '*', '/', '%', '&', '~':
		tok = Token{Type: TOKEN_OP, Literal: string(l.ch), Pos: pos}
	case '\'':
		return Token{Type: TOKEN_STRING, Literal: l.readDelimited('\''), Pos: pos}
	case '"':
		return Token{Type: TOKEN_QUOTED_IDENT, Literal: l.readDelimited('"'), Pos: pos}
	case '`':
		return Token{Type: TOKEN_QUOTED_IDENT, Literal: l.readDelimited('`'), Pos: pos}
	case '[':
		return Token{Type: TOKEN_QUOTED_IDENT, Literal: l.readDelimited(']'), Pos: pos}
	case '?':
		l.readChar()
		start := l.pos
		for isDigit(l.ch) {
			l.readChar()
		}
		return Token{Type: TOKEN_PARAM, Literal: "?" + l.input[start:l.pos], Pos: pos}
	case ':', '@', '$':
		if isIdentStart(l.peekChar()) {
			prefix := string(l.ch)
			l.readChar()
			return Token{Type: TOKEN_PARAM, Literal: prefix + l.readIdentifier(), Pos: pos}
		}
		tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: pos}
	default:
		if isIdentStart(l.ch) {
			literal := l.readIdentifier()
			return Token{Type: LookupIdent(strings.ToLower(literal)), Literal: literal, Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: pos}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		// Line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}

		// Block comment (/* ... */), unterminated runs to EOF
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for !l.atEOF() && (l.ch != '*' || l.peekChar() != '/') {
				l.readChar()
			}
			if !l.atEOF() {
				l.readChar()
				l.readChar()
			}
			continue
		}

		break
	}
}

// readDelimited reads a literal that ends at the closing delimiter.
// A doubled closing delimiter is an escape: 'it''s' -> it's. An unterminated
// literal runs to EOF.
func (l *Lexer) readDelimited(closing byte) string {
	l.readChar() // skip opening delimiter

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == closing {
			if closing != ']' && l.peekChar() == closing {
				result.WriteByte(closing)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing delimiter
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String()
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, hex, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.input[start:l.pos]
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 0x80 || unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Tokenize returns all tokens from the input, ending with TOKEN_EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
