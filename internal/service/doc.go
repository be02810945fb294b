// Package service provides the registry of command providers.
//
// Each provider publishes a Service definition whose tools may carry a
// shell command name. The registry indexes tools by ID and by command so
// the shell can dispatch "ls -l" to "filesystem.ls" and the HTTP API can
// execute "filesystem.ls" directly.
//
//	registry := service.NewRegistry()
//	registry.Register(filesystemProvider)
//	toolID, ok := registry.Command("ls")
//	result, err := registry.Execute(ctx, toolID, params, appCtx)
//
// Discover ranks services by keyword relevance and backs "man -k".
package service
