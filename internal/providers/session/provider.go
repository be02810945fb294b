// Package session provides the shell commands that act on the calling
// session itself rather than on the file system.
package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// History is the per-session command log.
type History interface {
	History() []string
	ClearHistory()
}

// Lookup finds a session's history by session ID.
type Lookup func(sessionID string) (History, bool)

// Provider implements history commands
type Provider struct {
	lookup Lookup
}

// NewProvider creates a session provider
func NewProvider(lookup Lookup) *Provider {
	return &Provider{lookup: lookup}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "session",
		Name:         "Session Service",
		Description:  "Per-session command history",
		Category:     types.CategorySession,
		Capabilities: []string{"history"},
		Tools: []types.Tool{
			{
				ID:          "session.history",
				Name:        "History",
				Command:     "history",
				Description: "Display or manipulate the history list. Use -c to clear history.",
				Usage:       "history - Display or manipulate the history list.\nUsage: history [-c] (-c to clear history)\nUsage: history [n] (show the last n entries)",
				Parameters: []types.Parameter{
					{Name: "args", Type: "array", Description: "[-c] | [n]", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "session.clear_history",
				Name:        "Clear History",
				Command:     "clear_history",
				Description: "Clear the command history.",
				Usage:       "clear_history - Clear the command history.\nUsage: clear_history",
				Returns:     "string",
			},
		},
	}
}

// Execute runs a session operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if appCtx == nil || appCtx.SessionID == "" {
		return types.Failure("session required")
	}
	hist, ok := p.lookup(appCtx.SessionID)
	if !ok {
		return types.Failuref("session not found: %s", appCtx.SessionID)
	}

	switch toolID {
	case "session.history":
		return p.history(hist, types.Args(params))
	case "session.clear_history":
		hist.ClearHistory()
		return types.Output("Command history cleared.")
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) history(hist History, args []string) (*types.Result, error) {
	for _, arg := range args {
		if arg == "-c" {
			hist.ClearHistory()
			return types.Output("Command history cleared.")
		}
	}

	entries := hist.History()
	if len(entries) == 0 {
		return types.Output("History is empty.")
	}

	first := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return types.Failuref("history: %s: numeric argument required", args[0])
		}
		first = max(len(entries)-n, 0)
	}

	lines := make([]string, 0, len(entries)-first)
	for i := first; i < len(entries); i++ {
		lines = append(lines, fmt.Sprintf(" %d  %s", i+1, entries[i]))
	}
	return types.Success(map[string]interface{}{
		types.KeyOutput: strings.Join(lines, "\n"),
		"entries":       entries[first:],
	})
}
