package filesystem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// OperationsOps handles commands that change the tree
type OperationsOps struct {
	*FilesystemOps
}

// GetTools returns mutating tool definitions
func (o *OperationsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.mkdir",
			Name:        "Make Directory",
			Command:     "mkdir",
			Description: "Make directories.",
			Usage:       "mkdir - Make directories.\nUsage: mkdir [directory...]\nUsage: mkdir -p [directory...] (create missing parents, no error if existing)",
			Parameters:  argsParam("[-p] directory..."),
			Returns:     "string",
		},
		{
			ID:          "filesystem.touch",
			Name:        "Touch",
			Command:     "touch",
			Description: "Change file timestamps. Create file if it does not exist.",
			Usage:       "touch - Change file timestamps. Create file if it does not exist.\nUsage: touch [file...]",
			Parameters:  argsParam("file..."),
			Returns:     "string",
		},
		{
			ID:          "filesystem.rm",
			Name:        "Remove",
			Command:     "rm",
			Description: "Remove files or directories. Use -r for recursive removal of non-empty directories.",
			Usage:       "rm - Remove files or directories.\nUsage: rm [file/directory...]\nUsage: rm -r [directory] (recursive removal for non-empty directories)\nUsage: rm -f [file...] (ignore nonexistent files)",
			Parameters:  argsParam("[-r] [-f] path..."),
			Returns:     "string",
		},
		{
			ID:          "filesystem.rmdir",
			Name:        "Remove Directory",
			Command:     "rmdir",
			Description: "Remove empty directories.",
			Usage:       "rmdir - Remove empty directories.\nUsage: rmdir [directory...]",
			Parameters:  argsParam("directory..."),
			Returns:     "string",
		},
		{
			ID:          "filesystem.mv",
			Name:        "Move",
			Command:     "mv",
			Description: "Move or rename files/directories. Supports multiple sources to a directory.",
			Usage:       "mv - Move or rename files and directories.\nUsage: mv [source] [destination]\nUsage: mv [source1] [source2...] [directory]",
			Parameters:  argsParam("source... destination"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.cp",
			Name:        "Copy",
			Command:     "cp",
			Description: "Copy files or directories. Use -r for recursive copy of directories. Supports multiple sources to a directory.",
			Usage:       "cp - Copy files or directories.\nUsage: cp [source_file] [destination_file_or_directory]\nUsage: cp -r [source_directory] [destination_directory]\nUsage: cp [-r] [source1] [source2...] [directory]",
			Parameters:  argsParam("[-r] source... destination"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.chmod",
			Name:        "Change Mode",
			Command:     "chmod",
			Description: "Change file mode bits (permissions). Accepts octal notation (e.g., 755).",
			Usage:       "chmod - Change file mode bits (permissions).\nUsage: chmod [octal_permissions] [file/directory]\nExample: chmod 755 myfile.sh (simulated permissions)",
			Parameters:  argsParam("mode path"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.reset",
			Name:        "Reset File System",
			Command:     "clear_fs",
			Description: "Reset the entire file system to its initial state.",
			Usage:       "clear_fs - Reset the entire file system to its initial state.\nUsage: clear_fs",
			Returns:     "string",
		},
	}
}

// Mkdir creates each named directory.
func (o *OperationsOps) Mkdir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	flags, operands, err := parseFlags("mkdir", types.Args(params), "p")
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(operands) == 0 {
		return types.Failure("Usage: mkdir [directory]")
	}
	parents := flags.has('p')

	var r report
	err = o.mutate(ctx, func(t *vfs.Tree) bool {
		changed := false
		for _, arg := range operands {
			target := resolve(arg, appCtx)
			if parents {
				if _, ok := t.ResolveDirectory(target); ok {
					continue
				}
				if _, err := t.MkdirAll(target); err != nil {
					r.fail(fmt.Sprintf("mkdir: cannot create directory '%s': Not a directory", arg))
					continue
				}
				changed = true
				r.ok(fmt.Sprintf("Directory '%s' created", arg))
				continue
			}

			switch err := t.Mkdir(target); vfs.CodeOf(err) {
			case "":
				changed = true
				r.ok(fmt.Sprintf("Directory '%s' created", arg))
			case vfs.CodeAlreadyExists:
				r.fail(fmt.Sprintf("mkdir: cannot create directory '%s': File exists", arg))
			default:
				r.fail(fmt.Sprintf("mkdir: cannot create directory '%s': No such file or directory.", arg))
			}
		}
		return changed
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

// Touch creates each named file, leaving existing files alone.
func (o *OperationsOps) Touch(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: touch [file]")
	}

	var r report
	err := o.mutate(ctx, func(t *vfs.Tree) bool {
		changed := false
		for _, arg := range args {
			created, err := t.Touch(resolve(arg, appCtx))
			switch vfs.CodeOf(err) {
			case "":
				if created {
					changed = true
					r.ok(fmt.Sprintf("File '%s' created", arg))
				} else {
					r.ok(fmt.Sprintf("touch: updated timestamp for '%s' (simulated)", arg))
				}
			case vfs.CodeIsADirectory:
				r.fail(fmt.Sprintf("touch: cannot touch '%s': Is a directory", arg))
			default:
				r.fail(fmt.Sprintf("touch: cannot create file '%s': No such file or directory.", arg))
			}
		}
		return changed
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

// Remove deletes files, and directories when recursive.
func (o *OperationsOps) Remove(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	flags, operands, err := parseFlags("rm", types.Args(params), "rRf")
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(operands) == 0 {
		return types.Failure("Usage: rm [-r] [file/directory]")
	}
	recursive, force := flags.has('r', 'R'), flags.has('f')

	var r report
	err = o.mutate(ctx, func(t *vfs.Tree) bool {
		changed := false
		for _, arg := range operands {
			if paths.IsSpecial(arg) {
				r.fail(fmt.Sprintf("rm: cannot remove special directory '%s'.", arg))
				continue
			}
			kind, err := t.Remove(resolve(arg, appCtx), recursive)
			switch vfs.CodeOf(err) {
			case "":
				changed = true
				if kind == vfs.KindDirectory {
					r.ok(fmt.Sprintf("Removed directory '%s'", arg))
				} else {
					r.ok(fmt.Sprintf("Removed file '%s'", arg))
				}
			case vfs.CodeNotFound:
				if !force {
					r.fail(fmt.Sprintf("rm: cannot remove '%s': No such file or directory", arg))
				}
			case vfs.CodeForbidden:
				r.fail(fmt.Sprintf("rm: cannot remove special directory '%s'.", arg))
			case vfs.CodeDirectoryNotEmpty:
				r.fail(fmt.Sprintf("rm: cannot remove '%s': Directory not empty. Use 'rm -r' to remove non-empty directories.", arg))
			default:
				r.fail(fmt.Sprintf("rm: cannot remove '%s': %v", arg, err))
			}
		}
		return changed
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

// Rmdir deletes empty directories.
func (o *OperationsOps) Rmdir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: rmdir [directory]")
	}

	var r report
	err := o.mutate(ctx, func(t *vfs.Tree) bool {
		changed := false
		for _, arg := range args {
			if paths.IsSpecial(arg) {
				r.fail(fmt.Sprintf("rmdir: cannot remove special directory '%s'.", arg))
				continue
			}
			switch err := t.Rmdir(resolve(arg, appCtx)); vfs.CodeOf(err) {
			case "":
				changed = true
				r.ok(fmt.Sprintf("Removed directory '%s'", arg))
			case vfs.CodeNotFound:
				r.fail(fmt.Sprintf("rmdir: failed to remove '%s': No such file or directory", arg))
			case vfs.CodeNotADirectory:
				r.fail(fmt.Sprintf("rmdir: failed to remove '%s': Not a directory", arg))
			case vfs.CodeForbidden:
				r.fail(fmt.Sprintf("rmdir: cannot remove special directory '%s'.", arg))
			default:
				r.fail(fmt.Sprintf("rmdir: failed to remove '%s': Directory not empty", arg))
			}
		}
		return changed
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

// Move renames a single source or moves several into a directory.
func (o *OperationsOps) Move(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) < 2 {
		return types.Failure("Usage: mv [source] [destination] OR mv [source1] [source2...] [directory]")
	}
	sources, dst := args[:len(args)-1], args[len(args)-1]
	dstPath := resolve(dst, appCtx)

	var r report
	err := o.mutate(ctx, func(t *vfs.Tree) bool {
		if _, isDir := t.ResolveDirectory(dstPath); isDir {
			return o.moveInto(t, &r, sources, dst, dstPath, appCtx)
		}
		if len(sources) > 1 {
			r.fail("mv: destination must be a directory if multiple sources are specified.")
			return false
		}

		src := sources[0]
		if paths.IsSpecial(src) {
			r.fail(fmt.Sprintf("mv: cannot move special directory '%s'.", src))
			return false
		}
		srcPath := resolve(src, appCtx)
		if err := t.Rename(srcPath, dstPath); err != nil {
			r.fail(transferError("mv", "move", err, src, srcPath, dst, dstPath))
			return false
		}
		r.ok(fmt.Sprintf("Moved '%s' to '%s'", src, dst))
		return srcPath != dstPath
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

func (o *OperationsOps) moveInto(t *vfs.Tree, r *report, sources []string, dst, dstPath string, appCtx *types.Context) bool {
	changed := false
	for _, src := range sources {
		if paths.IsSpecial(src) {
			r.fail(fmt.Sprintf("mv: cannot move special directory '%s'.", src))
			continue
		}
		srcPath := resolve(src, appCtx)
		outcomes, err := t.MoveInto([]string{srcPath}, dstPath)
		if err == nil && len(outcomes) == 1 {
			err = outcomes[0].Err
		}
		target := displayChild(dst, paths.Base(srcPath))
		if err != nil {
			r.fail(transferError("mv", "move", err, src, srcPath, target, dstPath))
			continue
		}
		changed = true
		r.ok(fmt.Sprintf("Moved '%s' to '%s'", src, target))
	}
	return changed
}

// Copy duplicates a single source or copies several into a directory.
func (o *OperationsOps) Copy(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	flags, operands, err := parseFlags("cp", types.Args(params), "rR")
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(operands) < 2 {
		return types.Failure("Usage: cp [-r] [source1] [source2...] [destination_directory] OR cp [source_file] [destination_file]")
	}
	recursive := flags.has('r', 'R')
	sources, dst := operands[:len(operands)-1], operands[len(operands)-1]
	dstPath := resolve(dst, appCtx)

	var r report
	err = o.mutate(ctx, func(t *vfs.Tree) bool {
		_, isDir := t.ResolveDirectory(dstPath)
		if len(sources) > 1 || isDir {
			if !isDir {
				r.fail(fmt.Sprintf("cp: target '%s' is not a directory", dst))
				return false
			}
			return o.copyInto(t, &r, sources, dst, dstPath, recursive, appCtx)
		}

		src := sources[0]
		if paths.IsSpecial(src) {
			r.fail(fmt.Sprintf("cp: cannot copy special directory '%s'.", src))
			return false
		}
		srcPath := resolve(src, appCtx)
		if err := t.CopyTo(srcPath, dstPath, recursive); err != nil {
			r.fail(transferError("cp", "copy", err, src, srcPath, dst, dstPath))
			return false
		}
		r.ok(fmt.Sprintf("Copied '%s' to '%s'", src, dst))
		return true
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

func (o *OperationsOps) copyInto(t *vfs.Tree, r *report, sources []string, dst, dstPath string, recursive bool, appCtx *types.Context) bool {
	changed := false
	for _, src := range sources {
		if paths.IsSpecial(src) {
			r.fail(fmt.Sprintf("cp: cannot copy special directory '%s'.", src))
			continue
		}
		srcPath := resolve(src, appCtx)
		outcomes, err := t.CopyInto([]string{srcPath}, dstPath, recursive)
		if err == nil && len(outcomes) == 1 {
			err = outcomes[0].Err
		}
		target := displayChild(dst, paths.Base(srcPath))
		if err != nil {
			r.fail(transferError("cp", "copy", err, src, srcPath, target, dstPath))
			continue
		}
		changed = true
		r.ok(fmt.Sprintf("Copied '%s' to '%s'", src, target))
	}
	return changed
}

// transferError renders a move or copy failure. A NotFound naming the
// source means it is missing; one naming anything else means the
// destination's parent is.
func transferError(cmd, verb string, err error, src, srcPath, dst, dstPath string) string {
	var verr *vfs.Error
	errors.As(err, &verr)

	switch vfs.CodeOf(err) {
	case vfs.CodeNotFound:
		if verr != nil && verr.Path == srcPath {
			return fmt.Sprintf("%s: cannot stat '%s': No such file or directory", cmd, src)
		}
		return fmt.Sprintf("%s: cannot create '%s': No such file or directory", cmd, dst)
	case vfs.CodeForbidden:
		return fmt.Sprintf("%s: cannot %s special directory '%s'.", cmd, verb, src)
	case vfs.CodeAlreadyExists:
		return fmt.Sprintf("%s: cannot %s '%s' to '%s': Target exists", cmd, verb, src, dst)
	case vfs.CodeDirectoryNotEmpty:
		return fmt.Sprintf("%s: cannot overwrite non-empty directory '%s' with '%s'", cmd, dst, src)
	case vfs.CodeIsADirectory:
		return fmt.Sprintf("%s: -r not specified; omitting directory '%s'", cmd, src)
	case vfs.CodeInvalidArgument:
		if srcPath == dstPath {
			return fmt.Sprintf("%s: '%s' and '%s' are the same file", cmd, src, dst)
		}
		return fmt.Sprintf("%s: cannot %s '%s' to a subdirectory of itself, '%s'", cmd, verb, src, dst)
	default:
		return fmt.Sprintf("%s: %v", cmd, err)
	}
}

func displayChild(dir, name string) string {
	return strings.TrimRight(dir, paths.Separator) + paths.Separator + name
}

// Chmod sets permission bits from a 3-digit octal mode.
func (o *OperationsOps) Chmod(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) != 2 {
		return types.Failure("Usage: chmod [octal_permissions] [file/directory]")
	}
	mode, arg := args[0], args[1]
	if _, err := vfs.ParseMode(mode); err != nil {
		return types.Failuref("chmod: invalid mode: '%s' (expected 3 octal digits, e.g., 755)", mode)
	}

	var (
		perms string
		kind  vfs.Kind
	)
	err := o.Repo.Mutate(ctx, func(t *vfs.Tree) error {
		var cerr error
		perms, kind, cerr = t.Chmod(resolve(arg, appCtx), mode)
		return cerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("chmod: cannot access '%s': No such file or directory", arg)
	}
	if err != nil {
		return nil, err
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: fmt.Sprintf("Permissions for %s '%s' changed to %s", kind, arg, perms),
		"permissions":   perms,
		"mode":          mode,
	})
}

// Reset discards the snapshot, reseeds the tree and sends the session home.
func (o *OperationsOps) Reset(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if _, err := o.Repo.Reset(ctx); err != nil {
		return nil, err
	}

	home := resolve("~", appCtx)
	err := o.mutate(ctx, func(t *vfs.Tree) bool {
		if _, ok := t.ResolveDirectory(home); ok {
			return false
		}
		_, err := t.MkdirAll(home)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return types.Success(map[string]interface{}{
		types.KeyOutput: "File system has been reset to its initial state.\nYou might want to type 'clear' to clear the screen.",
		types.KeyCwd:    home,
	})
}
