package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// MetadataOps handles content type detection and entry details
type MetadataOps struct {
	*FilesystemOps
}

// GetTools returns metadata tool definitions
func (m *MetadataOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.file",
			Name:        "File Type",
			Command:     "file",
			Description: "Determine file type.",
			Usage:       "file - Determine file type from its content.\nUsage: file [file...]",
			Parameters:  argsParam("path..."),
			Returns:     "array",
		},
		{
			ID:          "filesystem.stat",
			Name:        "Stat",
			Command:     "stat",
			Description: "Display file or directory status.",
			Usage:       "stat - Display file or directory status.\nUsage: stat [file/directory]",
			Parameters:  argsParam("path"),
			Returns:     "object",
		},
	}
}

// TypeInfo describes the detected type of one entry.
type TypeInfo struct {
	Path     string `json:"path"`
	MIMEType string `json:"mime_type,omitempty"`
	Charset  string `json:"charset,omitempty"`
	Kind     string `json:"kind"`
}

// FileType reports the content type of each path.
func (m *MetadataOps) FileType(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: file [file]")
	}

	var (
		r     report
		infos []TypeInfo
	)
	err := m.Repo.View(ctx, func(t *vfs.Tree) error {
		for _, arg := range args {
			target := resolve(arg, appCtx)
			if _, ok := t.ResolveDirectory(target); ok {
				infos = append(infos, TypeInfo{Path: target, Kind: vfs.KindDirectory.String()})
				r.ok(fmt.Sprintf("%s: directory", arg))
				continue
			}
			content, err := t.Read(target)
			if err != nil {
				r.fail(fmt.Sprintf("%s: cannot open '%s' (No such file or directory)", arg, arg))
				continue
			}
			info := detect(target, content)
			infos = append(infos, info)
			r.ok(fmt.Sprintf("%s: %s", arg, describe(info)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.set("types", infos)
	return r.result()
}

func detect(path, content string) TypeInfo {
	info := TypeInfo{Path: path, Kind: vfs.KindFile.String()}
	if content == "" {
		return info
	}
	data := []byte(content)
	info.MIMEType = mimetype.Detect(data).String()
	if isText(info.MIMEType) {
		info.Charset = detectCharset(data)
	}
	return info
}

func describe(info TypeInfo) string {
	switch {
	case info.MIMEType == "":
		return "empty"
	case info.Charset != "":
		return fmt.Sprintf("%s (%s text)", info.MIMEType, info.Charset)
	default:
		return info.MIMEType
	}
}

func isText(mime string) bool {
	return strings.HasPrefix(mime, "text/") ||
		strings.HasPrefix(mime, "application/json") ||
		strings.HasPrefix(mime, "application/xml") ||
		strings.HasPrefix(mime, "application/javascript")
}

func detectCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Stat prints the type, size and permissions of one entry.
func (m *MetadataOps) Stat(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := types.Args(params)
	if len(args) == 0 {
		return types.Failure("Usage: stat [file/directory]")
	}
	arg := args[0]
	target := resolve(arg, appCtx)

	var (
		kind  vfs.Kind
		perms string
		size  int
	)
	if err := m.Repo.View(ctx, func(t *vfs.Tree) error {
		res, ok := t.ResolveForMutation(target)
		if !ok {
			return nil
		}
		kind = res.Kind
		switch kind {
		case vfs.KindDirectory:
			perms = res.Dir.Perms
		case vfs.KindFile:
			perms, size = res.File.Perms, res.File.Size()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if kind == vfs.KindAbsent {
		return types.Failuref("stat: cannot stat '%s': No such file or directory", arg)
	}

	typeChar, typeName := "-", "regular file"
	if kind == vfs.KindDirectory {
		typeChar, typeName = "d", "directory"
	}
	mode := vfs.FormatMode(perms)
	out := fmt.Sprintf("  File: %s\n  Size: %d\tType: %s\nAccess: (0%s/%s%s)  Uid: %s  Gid: %s",
		target, size, typeName, mode, typeChar, perms, userOf(appCtx), userOf(appCtx))

	return types.Success(map[string]interface{}{
		types.KeyOutput: out,
		"path":          target,
		"kind":          kind.String(),
		"permissions":   perms,
		"mode":          mode,
		"size":          size,
	})
}
