package vfs

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Perms string `json:"permissions"`
	Size  int    `json:"size"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Counts holds wc-style statistics.
type Counts struct {
	Lines int `json:"lines"`
	Words int `json:"words"`
	Bytes int `json:"bytes"`
}

// List returns the children of the directory at path sorted by name. The long
// form adds "." and ".." entries carrying the permissions of the directory
// and of its parent. Directories report size 0.
func (t *Tree) List(path string, long bool) ([]Entry, error) {
	dir, ok := t.ResolveDirectory(path)
	if !ok {
		return nil, newError("ls", path, ErrNotFound)
	}

	entries := make([]Entry, 0, len(dir.Dirs)+len(dir.Files)+2)
	if long {
		parent := dir
		if parentPath, name := paths.Split(path); name != "" {
			parent, _ = t.ResolveDirectory(parentPath)
		}
		entries = append(entries,
			Entry{Name: paths.Current, Kind: KindDirectory, Perms: dir.Perms},
			Entry{Name: paths.Parent, Kind: KindDirectory, Perms: parent.Perms},
		)
	}
	for name, sub := range dir.Dirs {
		entries = append(entries, Entry{Name: name, Kind: KindDirectory, Perms: sub.Perms})
	}
	for name, f := range dir.Files {
		entries = append(entries, Entry{Name: name, Kind: KindFile, Perms: f.Perms, Size: f.Size()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Read returns the content of the file at path.
func (t *Tree) Read(path string) (string, error) {
	ref, ok := t.ResolveFile(path)
	if !ok {
		return "", newError("cat", path, ErrNotFound)
	}
	return ref.File.Content, nil
}

// Head returns the first n lines of the file at path.
func (t *Tree) Head(path string, n int) ([]string, error) {
	ref, ok := t.ResolveFile(path)
	if !ok {
		return nil, newError("head", path, ErrNotFound)
	}
	lines := strings.Split(ref.File.Content, "\n")
	if n < len(lines) {
		lines = lines[:max(n, 0)]
	}
	return lines, nil
}

// Tail returns the last n lines of the file at path.
func (t *Tree) Tail(path string, n int) ([]string, error) {
	ref, ok := t.ResolveFile(path)
	if !ok {
		return nil, newError("tail", path, ErrNotFound)
	}
	lines := strings.Split(ref.File.Content, "\n")
	if n < len(lines) {
		lines = lines[len(lines)-max(n, 0):]
	}
	return lines, nil
}

// Count returns line, word and byte counts for the file at path.
func (t *Tree) Count(path string) (Counts, error) {
	ref, ok := t.ResolveFile(path)
	if !ok {
		return Counts{}, newError("wc", path, ErrNotFound)
	}
	return CountContent(ref.File.Content), nil
}

// CountContent computes wc statistics. Lines are newline characters, less one
// when the content lacks a trailing newline, never below zero.
func CountContent(content string) Counts {
	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines--
	}
	return Counts{
		Lines: max(lines, 0),
		Words: len(strings.Fields(content)),
		Bytes: len(content),
	}
}

// Grep returns the lines of the file at path containing pattern, in order.
func (t *Tree) Grep(path, pattern string) ([]string, error) {
	ref, ok := t.ResolveFile(path)
	if !ok {
		return nil, newError("grep", path, ErrNotFound)
	}
	var matched []string
	for _, line := range strings.Split(ref.File.Content, "\n") {
		if strings.Contains(line, pattern) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}

// Matcher decides whether an entry name is reported by Find.
type Matcher func(name string) bool

// Contains matches names containing pattern.
func Contains(pattern string) Matcher {
	return func(name string) bool {
		return strings.Contains(name, pattern)
	}
}

// Glob matches names against a doublestar pattern.
func Glob(pattern string) (Matcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, newError("find", pattern, ErrInvalidArgument)
	}
	return func(name string) bool {
		ok, err := doublestar.Match(pattern, name)
		return err == nil && ok
	}, nil
}

// Find walks the directory at start in pre-order (a directory, then its
// subdirectories recursively, then its files) and returns the path of every
// entry whose final segment matches. The start directory is reported under
// the same rule; the root has no name and is never reported.
func (t *Tree) Find(start string, match Matcher) ([]string, error) {
	dir, ok := t.ResolveDirectory(start)
	if !ok {
		return nil, newError("find", start, ErrNotFound)
	}

	var results []string
	if _, name := paths.Split(start); name != "" && match(name) {
		results = append(results, start)
	}

	var walk func(d *Directory, at string)
	walk = func(d *Directory, at string) {
		for _, name := range d.DirNames() {
			p := childPath(at, name)
			if match(name) {
				results = append(results, p)
			}
			walk(d.Dirs[name], p)
		}
		for _, name := range d.FileNames() {
			if match(name) {
				results = append(results, childPath(at, name))
			}
		}
	}
	walk(dir, start)
	return results, nil
}
