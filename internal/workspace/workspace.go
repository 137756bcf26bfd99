// Package workspace is the local filesystem side of a cache operation: temp dirs,
// path globbing, sizes and cleanup.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

const globMeta = "*?[]{}\\"

type FS struct {
	root     string
	tempRoot string
	home     string
}

// New returns an FS resolving relative patterns against root and creating temp
// directories under tempRoot. Empty values mean the working directory and os.TempDir.
func New(root, tempRoot string) (*FS, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	home, _ := os.UserHomeDir()
	return &FS{root: root, tempRoot: tempRoot, home: home}, nil
}

func (w *FS) Root() string {
	return w.root
}

func (w *FS) CreateTempDir() (string, error) {
	if err := os.MkdirAll(w.tempRoot, 0o755); err != nil {
		return "", fmt.Errorf("create temp root %s: %w", w.tempRoot, err)
	}
	dir, err := os.MkdirTemp(w.tempRoot, "altcache-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return dir, nil
}

func (w *FS) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes path and anything below it. A missing path is not an error.
func (w *FS) Remove(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}

// ResolvePaths expands glob patterns (with ** support) into existing absolute paths.
// Patterns starting with "!" exclude earlier matches. Paths nested under another
// result are dropped because the archive already covers them.
func (w *FS) ResolvePaths(patterns []string) ([]string, error) {
	var includes, excludes []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, w.absPattern(strings.TrimSpace(p[1:])))
			continue
		}
		includes = append(includes, w.absPattern(p))
	}

	seen := make(map[string]struct{})
	var matches []string
	for _, pattern := range includes {
		found, err := doublestar.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range found {
			m = filepath.Clean(m)
			if _, ok := seen[m]; ok {
				continue
			}
			excluded, err := matchesAny(excludes, m)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}
	sort.Strings(matches)
	return dropNested(matches), nil
}

func (w *FS) absPattern(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if w.home != "" {
			p = filepath.Join(escapeMeta(w.home), strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(escapeMeta(w.root), p)
	}
	return p
}

// escapeMeta quotes glob metacharacters so a directory name is matched literally.
func escapeMeta(dir string) string {
	if !strings.ContainsAny(dir, globMeta) {
		return dir
	}
	var b strings.Builder
	for _, r := range dir {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func matchesAny(patterns []string, path string) (bool, error) {
	for _, ex := range patterns {
		ok, err := doublestar.PathMatch(ex, path)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", ex, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// dropNested removes every path that has an ancestor in paths. Sorted input keeps
// ancestors ahead of their descendants.
func dropNested(paths []string) []string {
	kept := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if hasAncestor(kept, p) {
			continue
		}
		kept[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func hasAncestor(set map[string]struct{}, p string) bool {
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if _, ok := set[dir]; ok {
			return true
		}
		if next := filepath.Dir(dir); next == dir {
			return false
		}
	}
}
