package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// Catalog lists the database files under a root laid out as
// <root>/<category>/<name>.sqlite. Listings can be cached; the cache is
// dropped whenever Watch observes a change under the root.
type Catalog struct {
	root   string
	suffix string
	cache  bool
	logger *slog.Logger

	mu         sync.RWMutex
	categories []core.Category
	valid      bool
}

// Config holds configuration for a Catalog.
type Config struct {
	Root   string
	Suffix string // DefaultSuffix when empty
	Cache  bool
	Logger *slog.Logger
}

// New creates a Catalog.
func New(cfg Config) *Catalog {
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		root:   cfg.Root,
		suffix: suffix,
		cache:  cfg.Cache,
		logger: logger,
	}
}

// Root returns the directory the catalog lists.
func (c *Catalog) Root() string {
	return c.root
}

// Categories returns every non-empty category directory under the root,
// ordered by name, with its files ordered by name. Callers own the result;
// a cached listing is copied on the way out.
func (c *Catalog) Categories(ctx context.Context) ([]core.Category, error) {
	if c.cache {
		c.mu.RLock()
		if c.valid {
			cached := cloneCategories(c.categories)
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()
	}

	categories, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache {
		c.mu.Lock()
		c.categories = cloneCategories(categories)
		c.valid = true
		c.mu.Unlock()
	}
	return categories, nil
}

func cloneCategories(in []core.Category) []core.Category {
	out := slices.Clone(in)
	for i := range out {
		out[i].Files = slices.Clone(out[i].Files)
	}
	return out
}

// Invalidate drops the cached listing.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.categories = nil
	c.valid = false
	c.mu.Unlock()
}

func (c *Catalog) scan(ctx context.Context) ([]core.Category, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.Errorf(core.KindNotFound, "list", "database root does not exist: %s", c.root)
		}
		return nil, fmt.Errorf("failed to read database root: %w", err)
	}

	categories := make([]core.Category, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		files, err := ListFiles(filepath.Join(c.root, entry.Name()), entry.Name(), c.suffix)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		categories = append(categories, core.Category{Category: entry.Name(), Files: files})
	}
	return categories, nil
}

// ListFiles returns the regular files in dir whose names end in suffix, in
// os.ReadDir order. Each file's Path is prefix joined with its name using
// forward slashes, or the bare name when prefix is empty.
func ListFiles(dir, prefix, suffix string) ([]core.DatabaseFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.Errorf(core.KindNotFound, "list", "directory does not exist: %s", filepath.Base(dir))
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]core.DatabaseFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, core.DatabaseFile{
			Name:     name,
			Path:     path.Join(prefix, name),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	return files, nil
}

// Watch invalidates the cached listing whenever a file under the root is
// created, removed or renamed. It blocks until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, c.root); err != nil {
		c.logger.Error("failed to watch database root", "root", c.root, "error", err)
		// continue without watching
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}

			// New category directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				c.logger.Debug("database root changed, dropping listing cache", "file", event.Name)
				c.Invalidate()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
