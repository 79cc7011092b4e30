package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// DefaultExtensions are the script and script-with-markup sources.
var DefaultExtensions = []string{".ts", ".tsx"}

// Walker enumerates candidate files under a root directory.
type Walker struct {
	extensions map[string]bool
	excludes   []string
}

// Option configures a Walker.
type Option func(*Walker)

// WithExtensions replaces the extension filter. Matching is on the exact,
// case-sensitive file name suffix.
func WithExtensions(exts ...string) Option {
	return func(w *Walker) {
		w.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			w.extensions[ext] = true
		}
	}
}

// WithExcludes skips paths (relative to the root, slash-separated) matching
// any of the doublestar patterns. A matching directory is not descended into.
func WithExcludes(patterns ...string) Option {
	return func(w *Walker) {
		for _, p := range patterns {
			if p = strings.TrimSpace(p); p != "" {
				w.excludes = append(w.excludes, p)
			}
		}
	}
}

// NewWalker creates a Walker selecting DefaultExtensions.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{}
	WithExtensions(DefaultExtensions...)(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Validate checks the exclude patterns.
func (w *Walker) Validate() error {
	for _, p := range w.excludes {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Paths lazily yields every selected regular file under root in directory
// enumeration order. Each call walks the tree again. The first error ends
// the sequence.
func (w *Walker) Paths(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield("", fmt.Errorf("stat root: %w", err))
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("root is not a directory: %s", root))
			return
		}

		errStop := errors.New("stop")
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if w.excluded(root, path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !w.Match(d.Name()) {
				return nil
			}
			if !yield(path, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", fmt.Errorf("walk directory: %w", err))
		}
	}
}

// Walk collects Paths into a slice.
func (w *Walker) Walk(root string) ([]string, error) {
	var paths []string
	for path, err := range w.Paths(root) {
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	log.Debug().Int("count", len(paths)).Str("root", root).Msg("Discovered files")
	return paths, nil
}

// Match reports whether a file name carries one of the selected extensions.
func (w *Walker) Match(name string) bool {
	ext := filepath.Ext(name)
	return ext != "" && w.extensions[ext]
}

func (w *Walker) excluded(root, path string) bool {
	if len(w.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.excludes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
