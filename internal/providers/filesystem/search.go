package filesystem

import (
	"context"
	"strings"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// SearchOps handles tree searches
type SearchOps struct {
	*FilesystemOps
}

// GetTools returns search tool definitions
func (s *SearchOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.find",
			Name:        "Find",
			Command:     "find",
			Description: "Search for files in a directory hierarchy.",
			Usage:       "find - Search for files in a directory hierarchy.\nUsage: find [path] -name [pattern]\n-name matches any name containing the pattern; -glob [pattern] matches shell-style globs instead.",
			Parameters:  argsParam("[path] -name|-glob pattern"),
			Returns:     "array",
		},
	}
}

const findUsage = "Usage: find [path] -name [pattern]"

// Find lists every entry below a path whose name matches a pattern.
func (s *SearchOps) Find(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)

	start := "."
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		start, args = args[0], args[1:]
	}
	if len(args) != 2 {
		return types.Failure(findUsage)
	}
	pattern := args[1]

	var match vfs.Matcher
	switch args[0] {
	case "-name":
		match = vfs.Contains(pattern)
	case "-glob":
		m, err := vfs.Glob(pattern)
		if err != nil {
			return types.Failuref("find: invalid glob '%s'", pattern)
		}
		match = m
	default:
		return types.Failure(findUsage)
	}

	var results []string
	err := s.Repo.View(ctx, func(t *vfs.Tree) error {
		var ferr error
		results, ferr = t.Find(resolve(start, appCtx), match)
		return ferr
	})
	if vfs.CodeOf(err) == vfs.CodeNotFound {
		return types.Failuref("find: '%s': No such file or directory", start)
	}
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []string{}
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: strings.Join(results, "\n"),
		"matches":       results,
	})
}
