package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pathGuard resolves tool paths against the default directory and, when
// restricted, rejects paths that leave it.
type pathGuard struct {
	root       string
	restricted bool
}

func newPathGuard(root string, allowOutside bool) pathGuard {
	return pathGuard{root: root, restricted: !allowOutside}
}

// resolve returns the cleaned absolute form of path. Relative paths are
// taken relative to the root; an empty path stays empty.
func (g pathGuard) resolve(path string) (string, error) {
	path = strings.TrimSpace(strings.ReplaceAll(path, "\x00", ""))
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if g.restricted && !g.within(abs) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return abs, nil
}

func (g pathGuard) resolveAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := g.resolve(p)
		if err != nil {
			return nil, err
		}
		if r != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// within reports whether path lies under the root, checking both the
// lexical path and, for existing entries, the path with symlinks evaluated.
func (g pathGuard) within(path string) bool {
	root, err := filepath.Abs(g.root)
	if err != nil {
		return false
	}
	root = filepath.Clean(root)
	if !under(path, root) && !under(path, evalSymlinks(root)) {
		return false
	}

	if _, err := os.Lstat(path); err != nil {
		// Not created yet, e.g. an output table.
		return true
	}
	resolved := evalSymlinks(path)
	return under(resolved, root) || under(resolved, evalSymlinks(root))
}

func under(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func evalSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
