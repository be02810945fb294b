package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// ContentOps handles reading and writing file content
type ContentOps struct {
	*FilesystemOps
}

// GetTools returns content tool definitions
func (c *ContentOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.cat",
			Name:        "Read File",
			Command:     "cat",
			Description: "Concatenate and display file content.",
			Usage:       "cat - Concatenate and display file content.\nUsage: cat [file...]",
			Parameters:  argsParam("file..."),
			Returns:     "string",
		},
		{
			ID:          "filesystem.head",
			Name:        "Head",
			Command:     "head",
			Description: "Output the first part of files.",
			Usage:       "head - Output the first part of files.\nUsage: head [-n num_lines] [file]",
			Parameters:  argsParam("[-n num_lines] file"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.tail",
			Name:        "Tail",
			Command:     "tail",
			Description: "Output the last part of files.",
			Usage:       "tail - Output the last part of files.\nUsage: tail [-n num_lines] [file]",
			Parameters:  argsParam("[-n num_lines] file"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.wc",
			Name:        "Word Count",
			Command:     "wc",
			Description: "Print newline, word, and byte counts for a file.",
			Usage:       "wc - Print newline, word, and byte counts for a file.\nUsage: wc [file]",
			Parameters:  argsParam("file"),
			Returns:     "object",
		},
		{
			ID:          "filesystem.grep",
			Name:        "Grep",
			Command:     "grep",
			Description: "Print lines matching a pattern.",
			Usage:       "grep - Print lines matching a pattern.\nUsage: grep [pattern] [file]",
			Parameters:  argsParam("pattern file"),
			Returns:     "array",
		},
		{
			ID:          "filesystem.edit",
			Name:        "Edit File",
			Command:     "edit",
			Description: "Edit file content in multi-line mode (type EOF on new line to save).",
			Usage:       "edit - Edit file content in multi-line mode (type EOF on new line to save).\nUsage: edit [file]",
			Parameters:  argsParam("file"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.write",
			Name:        "Write File",
			Description: "Replace file content, creating the file when absent",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
				{Name: "content", Type: "string", Description: "New content", Required: true},
				{Name: "name", Type: "string", Description: "Name shown in messages (defaults to path)", Required: false},
			},
			Returns: "string",
		},
	}
}

// Cat prints each file in turn.
func (c *ContentOps) Cat(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: cat [file]")
	}

	var r report
	err := c.Repo.View(ctx, func(t *vfs.Tree) error {
		for _, arg := range args {
			content, err := t.Read(resolve(arg, appCtx))
			if err != nil {
				r.fail(fmt.Sprintf("cat: %s: No such file or directory", arg))
				continue
			}
			r.ok(content)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.result()
}

// Head prints the first lines of a file.
func (c *ContentOps) Head(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return c.lines(ctx, "head", params, appCtx, (*vfs.Tree).Head)
}

// Tail prints the last lines of a file.
func (c *ContentOps) Tail(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return c.lines(ctx, "tail", params, appCtx, (*vfs.Tree).Tail)
}

func (c *ContentOps) lines(ctx context.Context, cmd string, params map[string]interface{}, appCtx *types.Context,
	extract func(*vfs.Tree, string, int) ([]string, error)) (*types.Result, error) {
	n, arg, err := parseLineCount(cmd, types.Args(params))
	if err != nil {
		return types.Failure(err.Error())
	}

	var lines []string
	err = c.Repo.View(ctx, func(t *vfs.Tree) error {
		var xerr error
		lines, xerr = extract(t, resolve(arg, appCtx), n)
		return xerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("%s: %s: No such file or directory", cmd, arg)
	}
	if err != nil {
		return nil, err
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: strings.Join(lines, "\n"),
		"lines":         lines,
	})
}

// Count prints "lines\twords\tbytes name".
func (c *ContentOps) Count(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: wc [file]")
	}
	arg := args[0]

	var counts vfs.Counts
	err := c.Repo.View(ctx, func(t *vfs.Tree) error {
		var cerr error
		counts, cerr = t.Count(resolve(arg, appCtx))
		return cerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("wc: %s: No such file or directory", arg)
	}
	if err != nil {
		return nil, err
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: fmt.Sprintf("%d\t%d\t%d %s", counts.Lines, counts.Words, counts.Bytes, arg),
		"counts":        counts,
	})
}

// Grep prints the lines of a file containing a literal pattern.
func (c *ContentOps) Grep(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) < 2 {
		return types.Failure("Usage: grep [pattern] [file]")
	}
	pattern, arg := args[0], args[1]

	var matches []string
	err := c.Repo.View(ctx, func(t *vfs.Tree) error {
		var gerr error
		matches, gerr = t.Grep(resolve(arg, appCtx), pattern)
		return gerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("grep: %s: No such file or directory", arg)
	}
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []string{}
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: strings.Join(matches, "\n"),
		"matches":       matches,
	})
}

// Edit shows the current content of an existing file and asks the
// dispatcher to enter edit mode for it through the "edit" key.
func (c *ContentOps) Edit(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: edit [filename]")
	}
	arg := args[0]
	target := resolve(arg, appCtx)

	var content string
	err := c.Repo.View(ctx, func(t *vfs.Tree) error {
		var rerr error
		content, rerr = t.Read(target)
		return rerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("edit: %s: No such file", arg)
	}
	if err != nil {
		return nil, err
	}

	out := fmt.Sprintf("Editing '%s' (type 'EOF' on new line to save)\nCurrent content:\n%s", arg, content)
	return types.Success(map[string]interface{}{
		types.KeyOutput: out,
		types.KeyEdit:   target,
	})
}

// Write replaces a file's content. It backs the save step of edit mode.
func (c *ContentOps) Write(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := types.String(params, "path")
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}
	content, ok := types.String(params, "content")
	if !ok {
		return types.Failure("content parameter required")
	}
	name, _ := types.String(params, "name")
	if name == "" {
		name = path
	}
	target := resolve(path, appCtx)

	err := c.Repo.Mutate(ctx, func(t *vfs.Tree) error {
		return t.WriteFile(target, content)
	})
	switch vfs.CodeOf(err) {
	case "":
	case vfs.CodeNotFound:
		return types.Failuref("edit: %s: No such file or directory", name)
	case vfs.CodeIsADirectory:
		return types.Failuref("edit: %s: Is a directory", name)
	default:
		return types.Failuref("edit: %s: %v", name, err)
	}
	if err != nil {
		return nil, err
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: fmt.Sprintf("File '%s' saved", name),
		"path":          target,
		"bytes":         len(content),
	})
}
