package sqlguard

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// MaxIdentifierLength bounds table identifiers accepted from clients.
const MaxIdentifierLength = 128

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether name is a plain table identifier: a letter
// or underscore followed by letters, digits or underscores.
func ValidIdentifier(name string) bool {
	return name != "" && len(name) <= MaxIdentifierLength && identifierPattern.MatchString(name)
}

// ValidateIdentifier returns a core.KindInvalidIdentifier error when name is
// not a plain table identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return core.Errorf(core.KindInvalidIdentifier, "identifier", "table name is required")
	}
	if !ValidIdentifier(name) {
		return core.Errorf(core.KindInvalidIdentifier, "identifier", "invalid table name: %q", name)
	}
	return nil
}

// QuoteIdentifier wraps a validated identifier in double quotes for
// interpolation into generated SQL.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
