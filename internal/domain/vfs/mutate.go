package vfs

import (
	"strings"

	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// Outcome reports the result of one source in a batch move or copy.
type Outcome struct {
	Source string
	Target string
	Kind   Kind
	Err    error
}

// CheckSpecial rejects the raw arguments "/", "." and ".." for operations
// that would remove or relocate them.
func CheckSpecial(op, arg string) error {
	if paths.IsSpecial(arg) {
		return newError(op, arg, ErrForbidden)
	}
	return nil
}

// Mkdir creates an empty directory.
func (t *Tree) Mkdir(path string) error {
	res, ok := t.ResolveForMutation(path)
	if !ok {
		return newError("mkdir", path, ErrNotFound)
	}
	if res.Exists() {
		return newError("mkdir", path, ErrAlreadyExists)
	}
	res.Parent.Dirs[res.Name] = NewDirectory(DefaultDirPerms)
	return nil
}

// Touch creates an empty file. Touching an existing file is a successful
// no-op and reports created=false.
func (t *Tree) Touch(path string) (created bool, err error) {
	res, ok := t.ResolveForMutation(path)
	if !ok {
		return false, newError("touch", path, ErrNotFound)
	}
	switch res.Kind {
	case KindDirectory:
		return false, newError("touch", path, ErrIsADirectory)
	case KindFile:
		return false, nil
	}
	res.Parent.Files[res.Name] = NewFile("")
	return true, nil
}

// WriteFile replaces the content of the file at path, creating it when absent.
// Existing permissions are kept.
func (t *Tree) WriteFile(path, content string) error {
	res, ok := t.ResolveForMutation(path)
	if !ok {
		return newError("write", path, ErrNotFound)
	}
	switch res.Kind {
	case KindDirectory:
		return newError("write", path, ErrIsADirectory)
	case KindFile:
		res.File.Content = content
	default:
		res.Parent.Files[res.Name] = NewFile(content)
	}
	return nil
}

// Remove deletes the entry at path. Non-empty directories require recursive.
// The kind of the removed entry is returned.
func (t *Tree) Remove(path string, recursive bool) (Kind, error) {
	res, ok := t.ResolveForMutation(path)
	if !ok || !res.Exists() {
		return KindAbsent, newError("rm", path, ErrNotFound)
	}
	if res.IsRoot() {
		return KindDirectory, newError("rm", path, ErrForbidden)
	}

	if res.Kind == KindDirectory {
		if !res.Dir.IsEmpty() && !recursive {
			return KindDirectory, newError("rm", path, ErrDirectoryNotEmpty)
		}
		purge(res.Dir)
	}
	res.Parent.detach(res.Name)
	return res.Kind, nil
}

// Rmdir deletes an empty directory.
func (t *Tree) Rmdir(path string) error {
	res, ok := t.ResolveForMutation(path)
	if !ok || !res.Exists() {
		return newError("rmdir", path, ErrNotFound)
	}
	if res.Kind != KindDirectory {
		return newError("rmdir", path, ErrNotADirectory)
	}
	if res.IsRoot() {
		return newError("rmdir", path, ErrForbidden)
	}
	if !res.Dir.IsEmpty() {
		return newError("rmdir", path, ErrDirectoryNotEmpty)
	}
	res.Parent.detach(res.Name)
	return nil
}

// Move relocates sources. When dst is an existing directory every source is
// moved into it independently. Otherwise exactly one source is renamed to dst.
func (t *Tree) Move(sources []string, dst string) ([]Outcome, error) {
	if _, ok := t.ResolveDirectory(dst); ok {
		return t.MoveInto(sources, dst)
	}
	if len(sources) != 1 {
		return nil, newError("mv", dst, ErrInvalidArgument)
	}
	out := t.rename(sources[0], dst)
	return []Outcome{out}, out.Err
}

// MoveInto moves each source under dstDir keeping its name. Failures are
// reported per source and do not stop the batch.
func (t *Tree) MoveInto(sources []string, dstDir string) ([]Outcome, error) {
	dst, ok := t.ResolveDirectory(dstDir)
	if !ok {
		return nil, newError("mv", dstDir, ErrNotADirectory)
	}

	outcomes := make([]Outcome, 0, len(sources))
	for _, src := range sources {
		out := Outcome{Source: src}
		res, ok := t.ResolveForMutation(src)
		switch {
		case !ok || !res.Exists():
			out.Err = newError("mv", src, ErrNotFound)
		case res.IsRoot():
			out.Err = newError("mv", src, ErrForbidden)
		default:
			out.Kind = res.Kind
			out.Target = childPath(dstDir, res.Name)
			switch {
			case res.Kind == KindDirectory && within(dstDir, src):
				out.Err = newError("mv", src, ErrInvalidArgument)
			case dst.Has(res.Name):
				out.Err = newError("mv", out.Target, ErrAlreadyExists)
			default:
				dir, file := res.Parent.detach(res.Name)
				dst.attach(res.Name, dir, file)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Rename moves a single entry to dst, replacing an existing file or empty
// directory there. Renaming a path onto itself is a no-op.
func (t *Tree) Rename(src, dst string) error {
	return t.rename(src, dst).Err
}

func (t *Tree) rename(src, dst string) Outcome {
	out := Outcome{Source: src, Target: dst}
	res, ok := t.ResolveForMutation(src)
	if !ok || !res.Exists() {
		out.Err = newError("mv", src, ErrNotFound)
		return out
	}
	out.Kind = res.Kind
	if res.IsRoot() {
		out.Err = newError("mv", src, ErrForbidden)
		return out
	}
	if src == dst {
		return out
	}
	if res.Kind == KindDirectory && within(dst, src) {
		out.Err = newError("mv", src, ErrInvalidArgument)
		return out
	}

	target, err := t.clearTarget("mv", dst)
	if err != nil {
		out.Err = err
		return out
	}
	dir, file := res.Parent.detach(res.Name)
	target.Parent.attach(target.Name, dir, file)
	return out
}

// Copy duplicates sources. When there are several sources or dst is an
// existing directory every source is copied into it independently. Otherwise
// the single source is copied to dst. Directories require recursive.
func (t *Tree) Copy(sources []string, dst string, recursive bool) ([]Outcome, error) {
	if _, ok := t.ResolveDirectory(dst); ok || len(sources) > 1 {
		return t.CopyInto(sources, dst, recursive)
	}
	if len(sources) != 1 {
		return nil, newError("cp", dst, ErrInvalidArgument)
	}
	out := t.copyTo(sources[0], dst, recursive)
	return []Outcome{out}, out.Err
}

// CopyInto deep-copies each source under dstDir keeping its name. Failures
// are reported per source and do not stop the batch.
func (t *Tree) CopyInto(sources []string, dstDir string, recursive bool) ([]Outcome, error) {
	dst, ok := t.ResolveDirectory(dstDir)
	if !ok {
		return nil, newError("cp", dstDir, ErrNotADirectory)
	}

	outcomes := make([]Outcome, 0, len(sources))
	for _, src := range sources {
		out := Outcome{Source: src}
		res, ok := t.ResolveForMutation(src)
		switch {
		case !ok || !res.Exists():
			out.Err = newError("cp", src, ErrNotFound)
		case res.IsRoot():
			out.Err = newError("cp", src, ErrForbidden)
		case res.Kind == KindDirectory && !recursive:
			out.Kind = res.Kind
			out.Err = newError("cp", src, ErrIsADirectory)
		default:
			out.Kind = res.Kind
			out.Target = childPath(dstDir, res.Name)
			switch {
			case res.Kind == KindDirectory && within(dstDir, src):
				out.Err = newError("cp", src, ErrInvalidArgument)
			case dst.Has(res.Name):
				out.Err = newError("cp", out.Target, ErrAlreadyExists)
			default:
				dst.attach(res.Name, cloneDir(res.Dir), cloneFile(res.File))
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// CopyTo deep-copies a single entry to dst, replacing an existing file or
// empty directory there.
func (t *Tree) CopyTo(src, dst string, recursive bool) error {
	return t.copyTo(src, dst, recursive).Err
}

func (t *Tree) copyTo(src, dst string, recursive bool) Outcome {
	out := Outcome{Source: src, Target: dst}
	res, ok := t.ResolveForMutation(src)
	if !ok || !res.Exists() {
		out.Err = newError("cp", src, ErrNotFound)
		return out
	}
	out.Kind = res.Kind
	switch {
	case res.IsRoot():
		out.Err = newError("cp", src, ErrForbidden)
		return out
	case res.Kind == KindDirectory && !recursive:
		out.Err = newError("cp", src, ErrIsADirectory)
		return out
	case src == dst:
		out.Err = newError("cp", src, ErrInvalidArgument)
		return out
	case res.Kind == KindDirectory && within(dst, src):
		out.Err = newError("cp", src, ErrInvalidArgument)
		return out
	}

	dir, file := cloneDir(res.Dir), cloneFile(res.File)
	target, err := t.clearTarget("cp", dst)
	if err != nil {
		out.Err = err
		return out
	}
	target.Parent.attach(target.Name, dir, file)
	return out
}

// Chmod applies an octal mode to the entry at path and returns the symbolic
// permission string that was set.
func (t *Tree) Chmod(path, octal string) (string, Kind, error) {
	perms, err := ParseMode(octal)
	if err != nil {
		return "", KindAbsent, err
	}
	res, ok := t.ResolveForMutation(path)
	if !ok || !res.Exists() {
		return "", KindAbsent, newError("chmod", path, ErrNotFound)
	}
	if res.Kind == KindDirectory {
		res.Dir.Perms = perms
	} else {
		res.File.Perms = perms
	}
	return perms, res.Kind, nil
}

// clearTarget prepares dst to receive an entry: its parent must exist, a file
// there is removed, an empty directory there is removed and a non-empty one
// is refused.
func (t *Tree) clearTarget(op, dst string) (Resolution, error) {
	target, ok := t.ResolveForMutation(dst)
	if !ok {
		return target, newError(op, dst, ErrNotFound)
	}
	if target.IsRoot() {
		return target, newError(op, dst, ErrForbidden)
	}
	switch target.Kind {
	case KindDirectory:
		if !target.Dir.IsEmpty() {
			return target, newError(op, dst, ErrDirectoryNotEmpty)
		}
		target.Parent.detach(target.Name)
	case KindFile:
		target.Parent.detach(target.Name)
	}
	return target, nil
}

// purge drops every descendant of d, deepest first.
func purge(d *Directory) {
	for name, sub := range d.Dirs {
		purge(sub)
		delete(d.Dirs, name)
	}
	for name := range d.Files {
		delete(d.Files, name)
	}
}

func cloneDir(d *Directory) *Directory {
	if d == nil {
		return nil
	}
	return d.Clone()
}

func cloneFile(f *File) *File {
	if f == nil {
		return nil
	}
	return f.Clone()
}

func childPath(dir, name string) string {
	return paths.Join(append(paths.Segments(dir), name))
}

// within reports whether path is ancestor or lies below it.
func within(path, ancestor string) bool {
	if ancestor == paths.Root {
		return true
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+paths.Separator)
}

// MkdirAll creates path and any missing parents. Existing directories are
// left untouched; a file on the way fails with NotADirectory.
func (t *Tree) MkdirAll(path string) (*Directory, error) {
	dir := t.Root
	for _, seg := range paths.Segments(path) {
		if _, isFile := dir.Files[seg]; isFile {
			return nil, newError("mkdir", path, ErrNotADirectory)
		}
		next, ok := dir.Dirs[seg]
		if !ok {
			next = NewDirectory(DefaultDirPerms)
			dir.Dirs[seg] = next
		}
		dir = next
	}
	return dir, nil
}
