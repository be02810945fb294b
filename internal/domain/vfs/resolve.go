package vfs

import (
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// FileRef locates a file together with its containing directory.
type FileRef struct {
	Parent *Directory
	Name   string
	File   *File
}

// Resolution describes the target of a mutating operation. Parent is nil only
// for the root, in which case Dir is the root itself.
type Resolution struct {
	Parent *Directory
	Name   string
	Dir    *Directory
	File   *File
	Kind   Kind
}

// Exists reports whether the resolved entry is present.
func (r Resolution) Exists() bool {
	return r.Kind != KindAbsent
}

// IsRoot reports whether the resolution points at the root.
func (r Resolution) IsRoot() bool {
	return r.Parent == nil
}

// ResolveDirectory walks path segment by segment. It fails as soon as a
// segment is missing or names a file.
func (t *Tree) ResolveDirectory(path string) (*Directory, bool) {
	dir := t.Root
	for _, seg := range paths.Segments(path) {
		next, ok := dir.Dirs[seg]
		if !ok {
			return nil, false
		}
		dir = next
	}
	return dir, true
}

// ResolveFile finds the file at path.
func (t *Tree) ResolveFile(path string) (FileRef, bool) {
	parentPath, name := paths.Split(path)
	if name == "" {
		return FileRef{}, false
	}
	parent, ok := t.ResolveDirectory(parentPath)
	if !ok {
		return FileRef{}, false
	}
	f, ok := parent.Files[name]
	if !ok {
		return FileRef{}, false
	}
	return FileRef{Parent: parent, Name: name, File: f}, true
}

// ResolveForMutation resolves the parent directory of path and reports what,
// if anything, currently sits at the final segment. It fails only when the
// parent does not resolve to a directory. It never mutates the tree.
func (t *Tree) ResolveForMutation(path string) (Resolution, bool) {
	parentPath, name := paths.Split(path)
	if name == "" {
		return Resolution{Name: paths.Root, Dir: t.Root, Kind: KindDirectory}, true
	}

	parent, ok := t.ResolveDirectory(parentPath)
	if !ok {
		return Resolution{}, false
	}

	res := Resolution{Parent: parent, Name: name}
	if d, ok := parent.Dirs[name]; ok {
		res.Dir = d
		res.Kind = KindDirectory
	} else if f, ok := parent.Files[name]; ok {
		res.File = f
		res.Kind = KindFile
	}
	return res, true
}

// Exists reports whether any entry exists at path.
func (t *Tree) Exists(path string) bool {
	res, ok := t.ResolveForMutation(path)
	return ok && res.Exists()
}
