package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// NavigationOps handles directory listing and working directory changes
type NavigationOps struct {
	*FilesystemOps
}

// GetTools returns navigation tool definitions
func (n *NavigationOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.ls",
			Name:        "List Directory",
			Command:     "ls",
			Description: "List directory contents. Use -l for long listing format.",
			Usage:       "ls - List directory contents.\nUsage: ls [directory]\nUsage: ls -l [directory] (long listing format showing permissions, size, etc.)\nUsage: ls -lh [directory] (human-readable sizes)",
			Parameters:  argsParam("[-l] [-h] [directory]"),
			Returns:     "array",
		},
		{
			ID:          "filesystem.cd",
			Name:        "Change Directory",
			Command:     "cd",
			Description: "Change the current directory.",
			Usage:       "cd - Change the current directory.\nUsage: cd [directory]",
			Parameters:  argsParam("[directory]"),
			Returns:     "string",
		},
		{
			ID:          "filesystem.pwd",
			Name:        "Print Working Directory",
			Command:     "pwd",
			Description: "Print the name of the current working directory.",
			Usage:       "pwd - Print the name of the current working directory.\nUsage: pwd",
			Returns:     "string",
		},
	}
}

// List renders a directory listing. The short form separates names with two
// spaces; the long form prints one "ls -l" row per entry.
func (n *NavigationOps) List(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	flags, operands, err := parseFlags("ls", types.Args(params), "lha")
	if err != nil {
		return types.Failure(err.Error())
	}
	long := flags.has('l')

	arg := ""
	target := resolve(".", appCtx)
	if len(operands) > 0 {
		arg = operands[0]
		target = resolve(arg, appCtx)
	}

	var entries []vfs.Entry
	err = n.Repo.View(ctx, func(t *vfs.Tree) error {
		var lerr error
		entries, lerr = t.List(target, long)
		return lerr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		if arg == "" {
			arg = target
		}
		return types.Failuref("ls: cannot access '%s': No such file or directory", arg)
	}
	if err != nil {
		return nil, err
	}

	var spans []types.Span
	if long {
		spans = longListing(entries, userOf(appCtx), flags.has('h'))
	} else {
		spans = shortListing(entries)
	}

	var text strings.Builder
	for _, s := range spans {
		text.WriteString(s.Text)
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: text.String(),
		types.KeySpans:  spans,
		"entries":       entries,
		"path":          target,
	})
}

func shortListing(entries []vfs.Entry) []types.Span {
	spans := make([]types.Span, 0, len(entries)*2)
	for i, e := range entries {
		if i > 0 {
			spans = append(spans, types.Span{Text: "  "})
		}
		spans = append(spans, nameSpan(e))
	}
	return spans
}

func longListing(entries []vfs.Entry, user string, human bool) []types.Span {
	spans := make([]types.Span, 0, len(entries)*3)
	for i, e := range entries {
		if i > 0 {
			spans = append(spans, types.Span{Text: "\n"})
		}
		typeChar, size := "-", ""
		if e.IsDir() {
			typeChar = "d"
		} else if human {
			size = humanize.Bytes(uint64(e.Size))
		} else {
			size = fmt.Sprint(e.Size)
		}
		prefix := fmt.Sprintf("%s%s 1 %s %s %-6s Jan 1 12:00 ", typeChar, e.Perms, user, user, size)
		spans = append(spans, types.Span{Text: prefix}, nameSpan(e))
	}
	return spans
}

func nameSpan(e vfs.Entry) types.Span {
	if e.IsDir() {
		return types.Span{Text: e.Name, Style: types.StyleDir}
	}
	return types.Span{Text: e.Name}
}

// ChangeDir validates the target and reports the new working directory
// under "cwd". The dispatcher applies it to the session.
func (n *NavigationOps) ChangeDir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	arg := ""
	target := resolve("~", appCtx)
	if len(args) > 0 {
		arg = args[0]
		target = resolve(arg, appCtx)
	}

	var found bool
	if err := n.Repo.View(ctx, func(t *vfs.Tree) error {
		_, found = t.ResolveDirectory(target)
		return nil
	}); err != nil {
		return nil, err
	}
	if !found {
		return types.Failuref("cd: %s: No such file or directory", arg)
	}

	return types.Success(map[string]interface{}{
		types.KeyOutput: "",
		types.KeyCwd:    target,
	})
}

// PrintDir prints the working directory.
func (n *NavigationOps) PrintDir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return types.Output(resolve(".", appCtx))
}

func argsParam(desc string) []types.Parameter {
	return []types.Parameter{
		{Name: "args", Type: "array", Description: desc, Required: false},
	}
}
