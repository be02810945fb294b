package types

import (
	"fmt"
	"strings"
)

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategorySystem     Category = "system"
	CategorySession    Category = "session"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool. Command is the shell word that invokes
// it; tools without one are only reachable by tool ID.
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Command     string      `json:"command,omitempty"`
	Usage       string      `json:"usage,omitempty"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context carries the calling session's state into every operation.
type Context struct {
	SessionID string `json:"session_id,omitempty"`
	User      string `json:"user"`
	Home      string `json:"home"`
	Cwd       string `json:"cwd"`
}

// Result represents a service execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Keys with meaning to the shell dispatcher.
const (
	KeyOutput = "output"
	KeyCwd    = "cwd"
	KeyClear  = "clear"
	KeyEdit   = "edit"
	KeySpans  = "spans"
)

// Hostname is the simulated machine name shown in prompts and by uname.
const Hostname = "browser"

// Span styles.
const (
	StyleDir = "dir"
)

// Span is a run of output text with an optional style. Renderers that can
// style output (HTML, terminal colours) use spans; plain output ignores them.
type Span struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// Success creates a successful result
func Success(data map[string]interface{}) (*Result, error) {
	return &Result{Success: true, Data: data}, nil
}

// Output creates a successful result carrying shell text.
func Output(text string) (*Result, error) {
	return Success(map[string]interface{}{KeyOutput: text})
}

// Failure creates a failed result
func Failure(message string) (*Result, error) {
	return &Result{Success: false, Error: &message}, nil
}

// Failuref creates a failed result from a format string.
func Failuref(format string, args ...interface{}) (*Result, error) {
	return Failure(fmt.Sprintf(format, args...))
}

// Text returns the shell-visible text of a result: the output on success,
// the error message on failure.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	if !r.Success {
		if r.Error != nil {
			return *r.Error
		}
		return ""
	}
	s, _ := r.Data[KeyOutput].(string)
	return s
}

// Spans returns the styled spans of a result, if any.
func (r *Result) Spans() []Span {
	if r == nil || !r.Success {
		return nil
	}
	spans, _ := r.Data[KeySpans].([]Span)
	return spans
}

// Args extracts the "args" parameter. JSON callers send an array, Go
// callers a []string, and a plain string is split on whitespace.
func Args(params map[string]interface{}) []string {
	switch v := params["args"].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, a := range v {
			out = append(out, fmt.Sprint(a))
		}
		return out
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}

// String extracts a string parameter.
func String(params map[string]interface{}, key string) (string, bool) {
	s, ok := params[key].(string)
	return s, ok
}
