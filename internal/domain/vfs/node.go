package vfs

import (
	"fmt"
	"sort"
	"strings"
)

// Default permission strings for newly created entries.
const (
	DefaultDirPerms  = "rwxr-xr-x"
	DefaultFilePerms = "rw-r--r--"
	WorldDirPerms    = "rwxrwxrwx"
)

// Kind is the variant tag of an entry.
type Kind int

const (
	KindAbsent Kind = iota
	KindDirectory
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "absent"
	}
}

// File is a leaf entry holding text content.
type File struct {
	Perms   string `json:"permissions" yaml:"permissions" toml:"permissions"`
	Content string `json:"content" yaml:"content" toml:"content"`
}

// NewFile creates a file with default permissions.
func NewFile(content string) *File {
	return &File{Perms: DefaultFilePerms, Content: content}
}

// Clone returns an independent copy of the file.
func (f *File) Clone() *File {
	c := *f
	return &c
}

// Size returns the content length in bytes.
func (f *File) Size() int {
	return len(f.Content)
}

// Directory owns its child directories and files. A name appears in at most
// one of the two maps.
type Directory struct {
	Perms string                `json:"permissions" yaml:"permissions" toml:"permissions"`
	Dirs  map[string]*Directory `json:"directories" yaml:"directories" toml:"directories"`
	Files map[string]*File      `json:"files" yaml:"files" toml:"files"`
}

// NewDirectory creates an empty directory with the given permissions.
func NewDirectory(perms string) *Directory {
	return &Directory{
		Perms: perms,
		Dirs:  make(map[string]*Directory),
		Files: make(map[string]*File),
	}
}

// Clone returns a deep copy: every descendant is a new node.
func (d *Directory) Clone() *Directory {
	c := NewDirectory(d.Perms)
	for name, sub := range d.Dirs {
		c.Dirs[name] = sub.Clone()
	}
	for name, f := range d.Files {
		c.Files[name] = f.Clone()
	}
	return c
}

// IsEmpty reports whether the directory has no children.
func (d *Directory) IsEmpty() bool {
	return len(d.Dirs) == 0 && len(d.Files) == 0
}

// Has reports whether name is taken by a directory or a file.
func (d *Directory) Has(name string) bool {
	return d.KindOf(name) != KindAbsent
}

// KindOf returns the kind of the named child.
func (d *Directory) KindOf(name string) Kind {
	if _, ok := d.Dirs[name]; ok {
		return KindDirectory
	}
	if _, ok := d.Files[name]; ok {
		return KindFile
	}
	return KindAbsent
}

// DirNames returns child directory names in lexicographic order.
func (d *Directory) DirNames() []string {
	return sortedKeys(d.Dirs)
}

// FileNames returns child file names in lexicographic order.
func (d *Directory) FileNames() []string {
	return sortedKeys(d.Files)
}

// detach removes the named child and returns what was removed.
func (d *Directory) detach(name string) (*Directory, *File) {
	if sub, ok := d.Dirs[name]; ok {
		delete(d.Dirs, name)
		return sub, nil
	}
	if f, ok := d.Files[name]; ok {
		delete(d.Files, name)
		return nil, f
	}
	return nil, nil
}

// attach places exactly one of dir or file under name.
func (d *Directory) attach(name string, dir *Directory, file *File) {
	if dir != nil {
		d.Dirs[name] = dir
		return
	}
	d.Files[name] = file
}

// ensure allocates nil maps left behind by decoding and rejects names held
// by both a directory and a file.
func (d *Directory) ensure(path string) error {
	if d.Dirs == nil {
		d.Dirs = make(map[string]*Directory)
	}
	if d.Files == nil {
		d.Files = make(map[string]*File)
	}
	for name, f := range d.Files {
		if f == nil {
			delete(d.Files, name)
		}
	}
	for name, sub := range d.Dirs {
		if sub == nil {
			delete(d.Dirs, name)
			continue
		}
		child := strings.TrimSuffix(path, "/") + "/" + name
		if _, ok := d.Files[name]; ok {
			return fmt.Errorf("%s is both a directory and a file", child)
		}
		if err := sub.ensure(child); err != nil {
			return err
		}
	}
	return nil
}

// Tree is a file system with a single root directory.
type Tree struct {
	Root *Directory `json:"root" yaml:"root" toml:"root"`
}

// NewTree creates a tree containing only the root.
func NewTree() *Tree {
	return &Tree{Root: NewDirectory(DefaultDirPerms)}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{Root: t.Root.Clone()}
}

// Stats summarizes a tree.
type Stats struct {
	Directories int `json:"directories"`
	Files       int `json:"files"`
	Bytes       int `json:"bytes"`
}

// Stats walks the tree and counts entries. The root is not counted.
func (t *Tree) Stats() Stats {
	var s Stats
	var walk func(d *Directory)
	walk = func(d *Directory) {
		for _, sub := range d.Dirs {
			s.Directories++
			walk(sub)
		}
		for _, f := range d.Files {
			s.Files++
			s.Bytes += f.Size()
		}
	}
	walk(t.Root)
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalText renders the kind by name in API payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
