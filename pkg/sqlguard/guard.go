// Package sqlguard decides whether a raw SQL string may run against a
// read-only database, and validates identifiers before they are
// interpolated into generated SQL.
//
// Statements are tokenized rather than matched as text, so keywords inside
// string literals, quoted identifiers and comments never count.
package sqlguard

import (
	"strings"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// Mode selects which statements the guard accepts.
type Mode int

const (
	// ReadOnly accepts SELECT, PRAGMA and EXPLAIN statements.
	ReadOnly Mode = iota
	// SelectOnly accepts only SELECT statements.
	SelectOnly
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == SelectOnly {
		return "select-only"
	}
	return "read-only"
}

// StatementKind is the root clause of an accepted statement.
type StatementKind int

// Statement kinds.
const (
	StatementSelect StatementKind = iota
	StatementPragma
	StatementExplain
)

// String returns the string representation of the statement kind.
func (k StatementKind) String() string {
	switch k {
	case StatementPragma:
		return "pragma"
	case StatementExplain:
		return "explain"
	default:
		return "select"
	}
}

// Statement is a statement the guard accepted.
type Statement struct {
	Kind StatementKind
	SQL  string // input with surrounding whitespace removed
}

// pragmasWithArgs are the introspection pragmas whose parenthesized argument
// names an object instead of assigning a value.
var pragmasWithArgs = map[string]bool{
	"table_info":        true,
	"table_xinfo":       true,
	"table_list":        true,
	"index_list":        true,
	"index_info":        true,
	"index_xinfo":       true,
	"foreign_key_list":  true,
	"foreign_key_check": true,
	"integrity_check":   true,
	"quick_check":       true,
}

// pragmasDenied write to the file even on a query-only connection.
var pragmasDenied = map[string]bool{
	"optimize":           true,
	"wal_checkpoint":     true,
	"incremental_vacuum": true,
}

const op = "validate"

// Check validates sql under mode and returns the accepted statement, or a
// core.KindUnsafeStatement error describing why it was rejected.
func Check(sql string, mode Mode) (*Statement, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return nil, core.Errorf(core.KindUnsafeStatement, op, "SQL statement is empty")
	}

	body, err := singleStatement(Tokenize(trimmed))
	if err != nil {
		return nil, err
	}

	kind, err := classify(body, mode, false)
	if err != nil {
		return nil, err
	}

	if err := checkMutations(body); err != nil {
		return nil, err
	}

	return &Statement{Kind: kind, SQL: trimmed}, nil
}

// IsAllowed reports whether sql passes Check under mode.
func IsAllowed(sql string, mode Mode) bool {
	_, err := Check(sql, mode)
	return err == nil
}

// singleStatement strips the EOF token and trailing semicolons, and rejects
// input that carries anything after the first top-level semicolon.
func singleStatement(tokens []Token) ([]Token, error) {
	end := len(tokens) - 1 // drop EOF
	for i := 0; i < end; i++ {
		if tokens[i].Type != TOKEN_SEMICOLON {
			continue
		}
		for _, rest := range tokens[i+1 : end] {
			if rest.Type != TOKEN_SEMICOLON {
				return nil, core.Errorf(core.KindUnsafeStatement, op,
					"multiple statements are not allowed (second statement at %s)", rest.Pos)
			}
		}
		end = i
		break
	}

	if end == 0 {
		return nil, core.Errorf(core.KindUnsafeStatement, op, "SQL statement is empty")
	}
	return tokens[:end], nil
}

func classify(body []Token, mode Mode, nested bool) (StatementKind, error) {
	switch body[0].Type {
	case TOKEN_SELECT:
		return StatementSelect, nil

	case TOKEN_WITH:
		if root := cteRoot(body); root.Type != TOKEN_SELECT {
			return 0, core.Errorf(core.KindUnsafeStatement, op,
				"WITH must be followed by a SELECT, found %q", root.Literal)
		}
		return StatementSelect, nil

	case TOKEN_PRAGMA:
		if mode == SelectOnly {
			return 0, rejectRoot(body[0], mode)
		}
		if err := checkPragma(body); err != nil {
			return 0, err
		}
		return StatementPragma, nil

	case TOKEN_EXPLAIN:
		if mode == SelectOnly || nested {
			return 0, rejectRoot(body[0], mode)
		}
		inner := body[1:]
		if len(inner) >= 2 && inner[0].Type == TOKEN_QUERY && inner[1].Type == TOKEN_PLAN {
			inner = inner[2:]
		}
		if len(inner) == 0 {
			return 0, core.Errorf(core.KindUnsafeStatement, op, "EXPLAIN requires a statement")
		}
		if _, err := classify(inner, mode, true); err != nil {
			return 0, err
		}
		return StatementExplain, nil

	default:
		return 0, rejectRoot(body[0], mode)
	}
}

func rejectRoot(tok Token, mode Mode) error {
	allowed := "SELECT, PRAGMA and EXPLAIN"
	if mode == SelectOnly {
		allowed = "SELECT"
	}
	return core.Errorf(core.KindUnsafeStatement, op,
		"only %s statements are allowed, found %q", allowed, tok.Literal)
}

// cteRoot returns the first top-level token after a WITH clause's common
// table expressions.
func cteRoot(body []Token) Token {
	depth := 0
	for _, tok := range body[1:] {
		switch tok.Type {
		case TOKEN_LPAREN:
			depth++
			continue
		case TOKEN_RPAREN:
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		switch tok.Type {
		case TOKEN_RECURSIVE, TOKEN_IDENT, TOKEN_QUOTED_IDENT, TOKEN_STRING,
			TOKEN_AS, TOKEN_NOT, TOKEN_MATERIALIZED, TOKEN_COMMA:
			continue
		}
		return tok
	}
	return Token{Type: TOKEN_EOF, Literal: "end of input"}
}

// checkPragma accepts `PRAGMA [schema.]name` and, for introspection pragmas,
// `PRAGMA [schema.]name(arg)`. Assignments are rejected.
func checkPragma(body []Token) error {
	i := 1
	if i >= len(body) || !isName(body[i]) {
		return core.Errorf(core.KindUnsafeStatement, op, "PRAGMA requires a name")
	}
	name := body[i].Literal
	i++
	if i < len(body) && body[i].Type == TOKEN_DOT {
		if i+1 >= len(body) || !isName(body[i+1]) {
			return core.Errorf(core.KindUnsafeStatement, op, "PRAGMA requires a name after the schema")
		}
		name = body[i+1].Literal
		i += 2
	}
	name = strings.ToLower(name)

	if pragmasDenied[name] {
		return core.Errorf(core.KindUnsafeStatement, op, "PRAGMA %s is not allowed", name)
	}
	if i == len(body) {
		return nil
	}

	switch body[i].Type {
	case TOKEN_EQ:
		return core.Errorf(core.KindUnsafeStatement, op, "PRAGMA assignment is not allowed")
	case TOKEN_LPAREN:
		if !pragmasWithArgs[name] {
			return core.Errorf(core.KindUnsafeStatement, op, "PRAGMA %s does not accept an argument", name)
		}
		if body[len(body)-1].Type != TOKEN_RPAREN || len(body)-i < 3 {
			return core.Errorf(core.KindUnsafeStatement, op, "malformed PRAGMA argument")
		}
		return nil
	default:
		return core.Errorf(core.KindUnsafeStatement, op, "unexpected %q after PRAGMA name", body[i].Literal)
	}
}

// checkMutations rejects mutation keywords anywhere in the statement.
// REPLACE followed by "(" is the scalar function and is allowed.
func checkMutations(body []Token) error {
	for i, tok := range body {
		if !tok.Type.IsMutation() {
			continue
		}
		if tok.Type == TOKEN_REPLACE && i+1 < len(body) && body[i+1].Type == TOKEN_LPAREN {
			continue
		}
		return core.Errorf(core.KindUnsafeStatement, op,
			"statement contains forbidden keyword %s", tok.Type)
	}
	return nil
}

func isName(tok Token) bool {
	return tok.Type == TOKEN_IDENT || tok.Type == TOKEN_QUOTED_IDENT || tok.Type == TOKEN_STRING
}
