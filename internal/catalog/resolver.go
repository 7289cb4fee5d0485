// Package catalog confines client-supplied database paths to configured roots
// and lists the database files available under them.
package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// DefaultSuffix is the file extension every served database must carry.
const DefaultSuffix = ".sqlite"

// SecondaryNamePattern is the grammar for names in the flat secondary
// directory.
var SecondaryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+\.sqlite$`)

// Resolver maps a relative database identifier onto a file inside Root.
// It performs no I/O beyond stat and symlink resolution.
type Resolver struct {
	Root          string
	Suffix        string         // required leaf extension, DefaultSuffix when empty
	NamePattern   *regexp.Regexp // optional grammar for the leaf name
	SingleSegment bool           // reject identifiers containing "/"
}

// NewResolver returns a resolver for multi-segment paths under root.
func NewResolver(root string) *Resolver {
	return &Resolver{Root: root, Suffix: DefaultSuffix}
}

// NewSecondaryResolver returns a resolver for bare file names under dir.
func NewSecondaryResolver(dir string) *Resolver {
	return &Resolver{
		Root:          dir,
		Suffix:        DefaultSuffix,
		NamePattern:   SecondaryNamePattern,
		SingleSegment: true,
	}
}

const resolveOp = "resolve"

// Resolve returns the canonical absolute path of rel inside the root.
//
// Malformed identifiers and identifiers whose canonical location escapes the
// root fail with core.KindInvalidPath. Missing files and non-regular files
// fail with core.KindNotFound.
func (r *Resolver) Resolve(rel string) (string, error) {
	if err := r.validate(rel); err != nil {
		return "", err
	}

	root, err := r.canonicalRoot()
	if err != nil {
		return "", err
	}

	target, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return "", core.Errorf(core.KindNotFound, resolveOp, "database file not found: %s", rel)
		}
		return "", core.Wrap(core.KindInvalidPath, resolveOp, "invalid database path", err)
	}

	if !within(root, target) {
		return "", core.Errorf(core.KindInvalidPath, resolveOp, "invalid database path: %s", rel)
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", core.Errorf(core.KindNotFound, resolveOp, "database file not found: %s", rel)
	}
	if !info.Mode().IsRegular() {
		return "", core.Errorf(core.KindNotFound, resolveOp, "database file not found: %s", rel)
	}

	return target, nil
}

// validate applies the lexical rules that need no filesystem access.
func (r *Resolver) validate(rel string) error {
	invalid := func() error {
		return core.Errorf(core.KindInvalidPath, resolveOp, "invalid database path: %q", rel)
	}

	if rel == "" || strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return invalid()
	}
	for _, c := range rel {
		if c < 0x20 || c == 0x7f || c == '\\' {
			return invalid()
		}
	}

	segments := strings.Split(rel, "/")
	if r.SingleSegment && len(segments) > 1 {
		return invalid()
	}
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return invalid()
		}
	}

	leaf := segments[len(segments)-1]
	suffix := r.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if !strings.HasSuffix(leaf, suffix) || len(leaf) == len(suffix) {
		return invalid()
	}
	if r.NamePattern != nil && !r.NamePattern.MatchString(leaf) {
		return core.Errorf(core.KindInvalidPath, resolveOp, "invalid database name: %q", rel)
	}
	return nil
}

func (r *Resolver) canonicalRoot() (string, error) {
	abs, err := filepath.Abs(r.Root)
	if err != nil {
		return "", core.Wrap(core.KindInternal, resolveOp, "failed to resolve database root", err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", core.Errorf(core.KindNotFound, resolveOp, "database root does not exist: %s", r.Root)
		}
		return "", core.Wrap(core.KindInternal, resolveOp, "failed to resolve database root", err)
	}
	return root, nil
}

// within reports whether target lies strictly inside root. Both paths must be
// canonical.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
