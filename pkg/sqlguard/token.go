package sqlguard

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// TOKEN_EOF represents end of input.
	TOKEN_EOF TokenType = iota
	// TOKEN_ILLEGAL represents an unrecognized character.
	TOKEN_ILLEGAL

	TOKEN_IDENT        // name
	TOKEN_QUOTED_IDENT // "name", `name`, [name]
	TOKEN_NUMBER       // 123, 45.67, 1e10, 0x1F
	TOKEN_STRING       // 'hello'
	TOKEN_PARAM        // ?, ?1, :name, @name, $name

	TOKEN_SEMICOLON // ;
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_COMMA     // ,
	TOKEN_DOT       // .
	TOKEN_EQ        // = or ==
	TOKEN_OP        // any other operator

	// Keywords that decide a statement's root clause (alphabetical)
	TOKEN_AS
	TOKEN_EXPLAIN
	TOKEN_MATERIALIZED
	TOKEN_NOT
	TOKEN_PLAN
	TOKEN_PRAGMA
	TOKEN_QUERY
	TOKEN_RECURSIVE
	TOKEN_SELECT
	TOKEN_VALUES
	TOKEN_WITH

	// Keywords that mutate the database or its attachments (alphabetical)
	TOKEN_ALTER
	TOKEN_ATTACH
	TOKEN_CREATE
	TOKEN_DELETE
	TOKEN_DETACH
	TOKEN_DROP
	TOKEN_INSERT
	TOKEN_REINDEX
	TOKEN_REPLACE
	TOKEN_UPDATE
	TOKEN_VACUUM
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:          "EOF",
	TOKEN_ILLEGAL:      "ILLEGAL",
	TOKEN_IDENT:        "IDENT",
	TOKEN_QUOTED_IDENT: "QUOTED_IDENT",
	TOKEN_NUMBER:       "NUMBER",
	TOKEN_STRING:       "STRING",
	TOKEN_PARAM:        "PARAM",
	TOKEN_SEMICOLON:    ";",
	TOKEN_LPAREN:       "(",
	TOKEN_RPAREN:       ")",
	TOKEN_COMMA:        ",",
	TOKEN_DOT:          ".",
	TOKEN_EQ:           "=",
	TOKEN_OP:           "OP",
	TOKEN_AS:           "AS",
	TOKEN_EXPLAIN:      "EXPLAIN",
	TOKEN_MATERIALIZED: "MATERIALIZED",
	TOKEN_NOT:          "NOT",
	TOKEN_PLAN:         "PLAN",
	TOKEN_PRAGMA:       "PRAGMA",
	TOKEN_QUERY:        "QUERY",
	TOKEN_RECURSIVE:    "RECURSIVE",
	TOKEN_SELECT:       "SELECT",
	TOKEN_VALUES:       "VALUES",
	TOKEN_WITH:         "WITH",
	TOKEN_ALTER:        "ALTER",
	TOKEN_ATTACH:       "ATTACH",
	TOKEN_CREATE:       "CREATE",
	TOKEN_DELETE:       "DELETE",
	TOKEN_DETACH:       "DETACH",
	TOKEN_DROP:         "DROP",
	TOKEN_INSERT:       "INSERT",
	TOKEN_REINDEX:      "REINDEX",
	TOKEN_REPLACE:      "REPLACE",
	TOKEN_UPDATE:       "UPDATE",
	TOKEN_VACUUM:       "VACUUM",
}

// String returns the string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsMutation reports whether the token type is a keyword that writes to the
// database or changes its attachments.
func (t TokenType) IsMutation() bool {
	return t >= TOKEN_ALTER && t <= TOKEN_VACUUM
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position represents a location in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// keywords maps lowercase keywords to their token types. Words not listed
// here lex as TOKEN_IDENT.
var keywords = map[string]TokenType{
	"as":           TOKEN_AS,
	"explain":      TOKEN_EXPLAIN,
	"materialized": TOKEN_MATERIALIZED,
	"not":          TOKEN_NOT,
	"plan":         TOKEN_PLAN,
	"pragma":       TOKEN_PRAGMA,
	"query":        TOKEN_QUERY,
	"recursive":    TOKEN_RECURSIVE,
	"select":       TOKEN_SELECT,
	"values":       TOKEN_VALUES,
	"with":         TOKEN_WITH,
	"alter":        TOKEN_ALTER,
	"attach":       TOKEN_ATTACH,
	"create":       TOKEN_CREATE,
	"delete":       TOKEN_DELETE,
	"detach":       TOKEN_DETACH,
	"drop":         TOKEN_DROP,
	"insert":       TOKEN_INSERT,
	"reindex":      TOKEN_REINDEX,
	"replace":      TOKEN_REPLACE,
	"update":       TOKEN_UPDATE,
	"vacuum":       TOKEN_VACUUM,
}

// LookupIdent returns the token type for an identifier, which may be a
// keyword. The argument must already be lowercased.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
