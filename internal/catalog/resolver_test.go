package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/pkg/core"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return p
}

func TestResolver_ResolvesFileInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "news", "daily.sqlite"))

	got, err := NewResolver(root).Resolve("news/daily.sqlite")
	require.NoError(t, err)
	assert.Equal(t, canonical(t, filepath.Join(root, "news", "daily.sqlite")), got)
}

func TestResolver_Rejects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "news", "daily.sqlite"))
	writeFile(t, filepath.Join(root, "news", "notes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "news", "dir.sqlite"), 0o755))

	tests := []struct {
		name string
		rel  string
		kind core.Kind
	}{
		{"empty", "", core.KindInvalidPath},
		{"parent traversal", "../daily.sqlite", core.KindInvalidPath},
		{"inner traversal", "news/../news/daily.sqlite", core.KindInvalidPath},
		{"dot segment", "./news/daily.sqlite", core.KindInvalidPath},
		{"absolute", "/etc/passwd.sqlite", core.KindInvalidPath},
		{"backslash", `news\daily.sqlite`, core.KindInvalidPath},
		{"empty segment", "news//daily.sqlite", core.KindInvalidPath},
		{"control character", "news/da\x00ily.sqlite", core.KindInvalidPath},
		{"wrong suffix", "news/notes.txt", core.KindInvalidPath},
		{"bare suffix", "news/.sqlite", core.KindInvalidPath},
		{"missing file", "news/missing.sqlite", core.KindNotFound},
		{"missing category", "sports/daily.sqlite", core.KindNotFound},
		{"directory", "news/dir.sqlite", core.KindNotFound},
	}

	r := NewResolver(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.rel)
			require.Error(t, err)
			assert.Equal(t, tt.kind, core.KindOf(err))
		})
	}
}

func TestResolver_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.sqlite")
	writeFile(t, target)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "news"), 0o755))

	link := filepath.Join(root, "news", "link.sqlite")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := NewResolver(root).Resolve("news/link.sqlite")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidPath)
}

func TestResolver_FollowsSymlinkInsideRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "archive", "old.sqlite")
	writeFile(t, target)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "news"), 0o755))

	if err := os.Symlink(target, filepath.Join(root, "news", "alias.sqlite")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := NewResolver(root).Resolve("news/alias.sqlite")
	require.NoError(t, err)
	assert.Equal(t, canonical(t, target), got)
}

func TestResolver_MissingRoot(t *testing.T) {
	_, err := NewResolver(filepath.Join(t.TempDir(), "nope")).Resolve("a/b.sqlite")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSecondaryResolver(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app-1.2_x.sqlite"))
	writeFile(t, filepath.Join(dir, "sub", "nested.sqlite"))

	r := NewSecondaryResolver(dir)

	got, err := r.Resolve("app-1.2_x.sqlite")
	require.NoError(t, err)
	assert.Equal(t, canonical(t, filepath.Join(dir, "app-1.2_x.sqlite")), got)

	for _, rel := range []string{"sub/nested.sqlite", "has space.sqlite", "app.db", "..sqlite/x"} {
		_, err := r.Resolve(rel)
		assert.ErrorIs(t, err, core.ErrInvalidPath, rel)
	}
}
