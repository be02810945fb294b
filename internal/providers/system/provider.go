package system

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Release is reported by uname.
const Release = "2.0.2-release"

// Catalog lists the commands the shell can dispatch.
type Catalog interface {
	Command(name string) (types.Tool, bool)
	Commands() []types.Tool
	Apropos(keyword string) []types.Tool
}

// Provider implements identity, time and help commands
type Provider struct {
	catalog   Catalog
	startTime time.Time
	now       func() time.Time
}

// NewProvider creates a system provider. catalog backs help and man.
func NewProvider(catalog Catalog) *Provider {
	return &Provider{
		catalog:   catalog,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "Shell built-ins: help, identity, time and system information",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"help",
			"info",
			"time",
		},
		Tools: []types.Tool{
			{
				ID:          "system.help",
				Name:        "Help",
				Command:     "help",
				Description: "Show help information about available commands.",
				Usage:       "help - Display information about available commands.\nUsage: help",
				Returns:     "string",
			},
			{
				ID:          "system.man",
				Name:        "Manual",
				Command:     "man",
				Description: "Display manual page for a command.",
				Usage:       "man - Display manual page for a command.\nUsage: man [command]\nUsage: man -k [keyword] (search commands by keyword)",
				Parameters: []types.Parameter{
					{Name: "args", Type: "array", Description: "[-k keyword] | [command]", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "system.echo",
				Name:        "Echo",
				Command:     "echo",
				Description: "Display a line of text.",
				Usage:       "echo - Display a line of text.\nUsage: echo [text...]",
				Parameters: []types.Parameter{
					{Name: "args", Type: "array", Description: "Words to print", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "system.clear",
				Name:        "Clear Screen",
				Command:     "clear",
				Description: "Clear the terminal screen.",
				Usage:       "clear - Clear the terminal screen.\nUsage: clear",
				Returns:     "boolean",
			},
			{
				ID:          "system.whoami",
				Name:        "Who Am I",
				Command:     "whoami",
				Description: "Print effective userid.",
				Usage:       "whoami - Print effective userid.\nUsage: whoami",
				Returns:     "string",
			},
			{
				ID:          "system.date",
				Name:        "Date",
				Command:     "date",
				Description: "Print or set the system date and time.",
				Usage:       "date - Print or set the system date and time.\nUsage: date",
				Returns:     "object",
			},
			{
				ID:          "system.uname",
				Name:        "Uname",
				Command:     "uname",
				Description: "Print system information",
				Usage:       "uname - Print system information.\nUsage: uname [-a]",
				Returns:     "string",
			},
			{
				ID:          "system.uptime",
				Name:        "Uptime",
				Command:     "uptime",
				Description: "Tell how long the system has been running.",
				Usage:       "uptime - Tell how long the system has been running.\nUsage: uptime",
				Returns:     "object",
			},
			{
				ID:          "system.info",
				Name:        "System Info",
				Description: "Get host runtime information",
				Returns:     "object",
			},
			{
				ID:          "system.ping",
				Name:        "Ping",
				Description: "Test service availability",
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system.help":
		return s.help()
	case "system.man":
		return s.man(types.Args(params))
	case "system.echo":
		return types.Output(strings.Join(types.Args(params), " "))
	case "system.clear":
		return types.Success(map[string]interface{}{types.KeyOutput: "", types.KeyClear: true})
	case "system.whoami":
		return s.whoami(appCtx)
	case "system.date":
		return s.date()
	case "system.uname":
		return s.uname(types.Args(params))
	case "system.uptime":
		return s.uptime()
	case "system.info":
		return s.info()
	case "system.ping":
		return s.ping()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) help() (*types.Result, error) {
	lines := []string{"Available commands:"}
	for _, tool := range s.catalog.Commands() {
		if tool.Description == "" {
			lines = append(lines, "  "+tool.Command)
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s - %s", tool.Command, tool.Description))
	}
	return types.Output(strings.Join(lines, "\n"))
}

func (s *Provider) man(args []string) (*types.Result, error) {
	if len(args) == 0 {
		tools := s.catalog.Commands()
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, tool.Command)
		}
		return types.Output("What manual page do you want?\nAvailable man pages: " + strings.Join(names, ", "))
	}

	if args[0] == "-k" {
		if len(args) < 2 {
			return types.Failure("apropos what?")
		}
		matches := s.catalog.Apropos(args[1])
		if len(matches) == 0 {
			return types.Failuref("%s: nothing appropriate.", args[1])
		}
		lines := make([]string, 0, len(matches))
		for _, tool := range matches {
			lines = append(lines, fmt.Sprintf("%s - %s", tool.Command, tool.Description))
		}
		return types.Output(strings.Join(lines, "\n"))
	}

	tool, ok := s.catalog.Command(args[0])
	if !ok {
		return types.Failuref("No manual entry for %s", args[0])
	}
	if tool.Usage != "" {
		return types.Output(tool.Usage)
	}
	return types.Output(fmt.Sprintf("%s - %s", tool.Command, tool.Description))
}

func (s *Provider) whoami(appCtx *types.Context) (*types.Result, error) {
	if appCtx == nil || appCtx.User == "" {
		return types.Failure("whoami: cannot find name for user")
	}
	return types.Output(appCtx.User)
}

func (s *Provider) date() (*types.Result, error) {
	now := s.now()
	return types.Success(map[string]interface{}{
		types.KeyOutput: now.Format(time.UnixDate),
		"timestamp":     now.Unix(),
		"iso":           now.Format(time.RFC3339),
	})
}

func (s *Provider) uname(args []string) (*types.Result, error) {
	if len(args) > 0 && args[0] == "-a" {
		return types.Output(fmt.Sprintf("Linux %s %s %s GNU/Linux", types.Hostname, Release, runtime.GOARCH))
	}
	return types.Output(fmt.Sprintf("Linux %s %s", types.Hostname, Release))
}

func (s *Provider) uptime() (*types.Result, error) {
	now := s.now()
	since := strings.TrimSpace(humanize.RelTime(s.startTime, now, "", ""))
	return types.Success(map[string]interface{}{
		types.KeyOutput:  fmt.Sprintf("up %s, since %s", since, s.startTime.Format(time.DateTime)),
		"uptime_seconds": now.Sub(s.startTime).Seconds(),
	})
}

func (s *Provider) info() (*types.Result, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return types.Success(map[string]interface{}{
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"cpus":           runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_alloc":   humanize.Bytes(m.Alloc),
		"memory_sys":     humanize.Bytes(m.Sys),
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	})
}

func (s *Provider) ping() (*types.Result, error) {
	return types.Success(map[string]interface{}{
		"pong":      true,
		"timestamp": time.Now().Unix(),
	})
}
