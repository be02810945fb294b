package filesystem

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Repository is the snapshot store the commands operate on.
type Repository interface {
	View(ctx context.Context, fn func(*vfs.Tree) error) error
	Mutate(ctx context.Context, fn func(*vfs.Tree) error) error
	Reset(ctx context.Context) (*vfs.Tree, error)
}

// FilesystemOps provides helpers shared by every command module.
type FilesystemOps struct {
	Repo Repository
}

// errUnchanged aborts a mutation that altered nothing so no snapshot is
// written.
var errUnchanged = errors.New("unchanged")

// mutate runs fn in a load/mutate/save cycle. fn reports whether it changed
// the tree; an unchanged tree is not saved.
func (ops *FilesystemOps) mutate(ctx context.Context, fn func(*vfs.Tree) bool) error {
	err := ops.Repo.Mutate(ctx, func(t *vfs.Tree) error {
		if !fn(t) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

// resolve normalizes a user-supplied path against the session.
func resolve(arg string, appCtx *types.Context) string {
	cwd, home := paths.Root, paths.Root
	if appCtx != nil {
		if appCtx.Cwd != "" {
			cwd = appCtx.Cwd
		}
		if appCtx.Home != "" {
			home = appCtx.Home
		}
	}
	return paths.Normalize(arg, cwd, home)
}

func userOf(appCtx *types.Context) string {
	if appCtx == nil || appCtx.User == "" {
		return "user"
	}
	return appCtx.User
}

// report turns collected lines into a result: a failure when any line is
// an error, so callers can tell partial success apart.
type report struct {
	lines  []string
	failed bool
	data   map[string]interface{}
}

func (r *report) ok(line string) {
	r.lines = append(r.lines, line)
}

func (r *report) fail(line string) {
	r.lines = append(r.lines, line)
	r.failed = true
}

func (r *report) set(key string, value interface{}) {
	if r.data == nil {
		r.data = make(map[string]interface{})
	}
	r.data[key] = value
}

func (r *report) result() (*types.Result, error) {
	text := joinLines(r.lines)
	if r.failed {
		return types.Failure(text)
	}
	if r.data == nil {
		r.data = make(map[string]interface{})
	}
	r.data[types.KeyOutput] = text
	return types.Success(r.data)
}

func joinLines(lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0]
	}
	n := len(lines) - 1
	for _, l := range lines {
		n += len(l)
	}
	b := make([]byte, 0, n)
	for i, l := range lines {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, l...)
	}
	return string(b)
}
