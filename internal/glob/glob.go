// Package glob expands shell-style patterns against the live filesystem.
//
// Wildcards (*, ?, [...]) may appear in any path segment, including intermediate
// directories. Expansion walks the pattern one segment at a time, listing each
// matched directory and filtering its entries with filepath.Match. As in a shell,
// a wildcard does not match a leading dot unless the segment itself starts with one.
// Nothing is cached: every call rescans the filesystem.
package glob

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Expand returns the existing regular files matching pattern, in lexical discovery order.
// Symlinks and directories are excluded. A pattern that matches nothing yields an empty
// result; only a malformed pattern is an error.
func Expand(pattern string) ([]string, error) {
	paths, err := expand(pattern)
	if err != nil {
		return nil, err
	}

	files := paths[:0]
	for _, p := range paths {
		st, err := os.Lstat(p)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		files = append(files, p)
	}
	return files, nil
}

// ExpandDirs resolves the directory portion of pattern to the existing directories it names.
func ExpandDirs(pattern string) ([]string, error) {
	paths, err := expand(filepath.Dir(pattern))
	if err != nil {
		return nil, err
	}
	return onlyDirs(paths), nil
}

// Find walks root recursively and returns the regular files whose base name matches name.
// Unreadable subdirectories are skipped. A symlinked root is resolved, symlinks below it are
// neither followed nor returned. Results are reported under root as given.
func Find(root, name string) ([]string, error) {
	if _, err := filepath.Match(name, ""); err != nil {
		return nil, err
	}

	walkRoot := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		walkRoot = resolved
	}

	var found []string
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != walkRoot {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, _ := filepath.Match(name, d.Name()); ok {
			r, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			found = append(found, filepath.Join(root, r))
		}
		return nil
	})
	return found, err
}

func expand(pattern string) ([]string, error) {
	root, segs := split(filepath.Clean(pattern))

	cur := []string{root}
	for i, seg := range segs {
		var next []string

		if !hasMeta(seg) {
			for _, dir := range cur {
				p := join(dir, seg)
				if _, err := os.Lstat(p); err == nil {
					next = append(next, p)
				}
			}
		} else {
			if _, err := filepath.Match(seg, ""); err != nil {
				return nil, err
			}
			for _, dir := range cur {
				next = append(next, matchDir(dir, seg)...)
			}
		}

		if i < len(segs)-1 {
			next = onlyDirs(next)
		}
		if len(next) == 0 {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

func matchDir(dir, seg string) []string {
	entries, err := os.ReadDir(dirOrDot(dir))
	if err != nil {
		return nil
	}

	hidden := strings.HasPrefix(seg, ".")
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !hidden {
			continue
		}
		if ok, _ := filepath.Match(seg, name); ok {
			out = append(out, join(dir, name))
		}
	}
	return out
}

// split separates the absolute root (if any) from the remaining path segments.
func split(pattern string) (string, []string) {
	root := ""
	rest := pattern
	if filepath.IsAbs(pattern) {
		vol := filepath.VolumeName(pattern)
		root = vol + string(filepath.Separator)
		rest = strings.TrimPrefix(pattern[len(vol):], string(filepath.Separator))
	}

	var segs []string
	for _, s := range strings.Split(rest, string(filepath.Separator)) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return root, segs
}

func onlyDirs(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err == nil && st.IsDir() {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func hasMeta(s string) bool {
	magic := `*?[`
	if filepath.Separator != '\\' {
		magic = `*?[\`
	}
	return strings.ContainsAny(s, magic)
}
