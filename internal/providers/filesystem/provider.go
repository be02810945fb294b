package filesystem

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Provider exposes the file commands as one service
type Provider struct {
	*FilesystemOps
	navigation *NavigationOps
	content    *ContentOps
	operations *OperationsOps
	search     *SearchOps
	metadata   *MetadataOps
}

// NewProvider creates the filesystem provider over a snapshot repository
func NewProvider(repo Repository) *Provider {
	ops := &FilesystemOps{Repo: repo}
	return &Provider{
		FilesystemOps: ops,
		navigation:    &NavigationOps{FilesystemOps: ops},
		content:       &ContentOps{FilesystemOps: ops},
		operations:    &OperationsOps{FilesystemOps: ops},
		search:        &SearchOps{FilesystemOps: ops},
		metadata:      &MetadataOps{FilesystemOps: ops},
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	var tools []types.Tool
	tools = append(tools, p.navigation.GetTools()...)
	tools = append(tools, p.content.GetTools()...)
	tools = append(tools, p.operations.GetTools()...)
	tools = append(tools, p.search.GetTools()...)
	tools = append(tools, p.metadata.GetTools()...)

	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Directory and file commands over the virtual file system",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"read",
			"write",
			"create",
			"delete",
			"move",
			"copy",
			"search",
			"chmod",
			"reset",
		},
		Tools: tools,
	}
}

// Execute runs a filesystem operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	// Navigation
	case "filesystem.ls":
		return p.navigation.List(ctx, params, appCtx)
	case "filesystem.cd":
		return p.navigation.ChangeDir(ctx, params, appCtx)
	case "filesystem.pwd":
		return p.navigation.PrintDir(ctx, params, appCtx)

	// Content
	case "filesystem.cat":
		return p.content.Cat(ctx, params, appCtx)
	case "filesystem.head":
		return p.content.Head(ctx, params, appCtx)
	case "filesystem.tail":
		return p.content.Tail(ctx, params, appCtx)
	case "filesystem.wc":
		return p.content.Count(ctx, params, appCtx)
	case "filesystem.grep":
		return p.content.Grep(ctx, params, appCtx)
	case "filesystem.edit":
		return p.content.Edit(ctx, params, appCtx)
	case "filesystem.write":
		return p.content.Write(ctx, params, appCtx)

	// Operations
	case "filesystem.mkdir":
		return p.operations.Mkdir(ctx, params, appCtx)
	case "filesystem.touch":
		return p.operations.Touch(ctx, params, appCtx)
	case "filesystem.rm":
		return p.operations.Remove(ctx, params, appCtx)
	case "filesystem.rmdir":
		return p.operations.Rmdir(ctx, params, appCtx)
	case "filesystem.mv":
		return p.operations.Move(ctx, params, appCtx)
	case "filesystem.cp":
		return p.operations.Copy(ctx, params, appCtx)
	case "filesystem.chmod":
		return p.operations.Chmod(ctx, params, appCtx)
	case "filesystem.reset":
		return p.operations.Reset(ctx, params, appCtx)

	// Search and metadata
	case "filesystem.find":
		return p.search.Find(ctx, params, appCtx)
	case "filesystem.file":
		return p.metadata.FileType(ctx, params, appCtx)
	case "filesystem.stat":
		return p.metadata.Stat(ctx, params, appCtx)

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
