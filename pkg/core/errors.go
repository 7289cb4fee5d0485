package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// Kind
// =============================================================================

// Kind classifies a gateway failure. Every layer reports failures with one
// of these kinds so the transport can map them to a status code.
type Kind int

// Failure kinds.
const (
	// KindInternal is an unexpected failure outside the taxonomy.
	KindInternal Kind = iota
	// KindInvalidPath means a path is malformed or escapes its root.
	KindInvalidPath
	// KindInvalidIdentifier means a table or database name failed the grammar.
	KindInvalidIdentifier
	// KindUnsafeStatement means the statement filter rejected the SQL.
	KindUnsafeStatement
	// KindInvalidArgument means a request parameter could not be used.
	KindInvalidArgument
	// KindNotFound means the resolved file or table does not exist.
	KindNotFound
	// KindOpenFailure means the engine could not open the file.
	KindOpenFailure
	// KindQueryExecution is a generic engine failure during a query.
	KindQueryExecution
	// KindSyntaxError means the engine rejected the statement's syntax.
	KindSyntaxError
	// KindNoSuchTable means the statement names an unknown table.
	KindNoSuchTable
	// KindNoSuchColumn means the statement names an unknown column.
	KindNoSuchColumn
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid_path"
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindUnsafeStatement:
		return "unsafe_statement"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindOpenFailure:
		return "open_failure"
	case KindQueryExecution:
		return "query_execution_failure"
	case KindSyntaxError:
		return "syntax_error"
	case KindNoSuchTable:
		return "no_such_table"
	case KindNoSuchColumn:
		return "no_such_column"
	default:
		return "internal"
	}
}

// IsClientError reports whether the kind describes a bad request rather than
// a server-side failure.
func (k Kind) IsClientError() bool {
	switch k {
	case KindInvalidPath, KindInvalidIdentifier, KindUnsafeStatement,
		KindInvalidArgument, KindSyntaxError, KindNoSuchTable, KindNoSuchColumn:
		return true
	default:
		return false
	}
}

// =============================================================================
// Error
// =============================================================================

// Error is a classified gateway failure.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "resolve", "paginate"
	Msg  string // client-facing message
	Err  error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works against sentinel values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidPath       = &Error{Kind: KindInvalidPath}
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier}
	ErrUnsafeStatement   = &Error{Kind: KindUnsafeStatement}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrOpenFailure       = &Error{Kind: KindOpenFailure}
	ErrQueryExecution    = &Error{Kind: KindQueryExecution}
	ErrSyntax            = &Error{Kind: KindSyntaxError}
	ErrNoSuchTable       = &Error{Kind: KindNoSuchTable}
	ErrNoSuchColumn      = &Error{Kind: KindNoSuchColumn}
)

// Errorf builds a classified error with a formatted client-facing message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, op, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of the first *Error in err's
// chain, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}

// Details returns the underlying cause text of a classified error, or "" when
// there is none.
func Details(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}
