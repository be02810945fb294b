package types

// CreateSessionRequest opens a shell session.
type CreateSessionRequest struct {
	User string `json:"user"`
}

// ExecRequest runs one input line in a session.
type ExecRequest struct {
	Line string `json:"line"`
}

// ExecuteRequest represents a direct service execution request
type ExecuteRequest struct {
	ToolID    string                 `json:"tool_id" binding:"required"`
	Params    map[string]interface{} `json:"params"`
	SessionID string                 `json:"session_id" binding:"required"`
}

// ExecResponse is the outcome of one input line.
type ExecResponse struct {
	Output  string `json:"output"`
	Error   bool   `json:"error"`
	Spans   []Span `json:"spans,omitempty"`
	HTML    string `json:"html,omitempty"`
	Cwd     string `json:"cwd"`
	Prompt  string `json:"prompt"`
	Mode    string `json:"mode"`
	Clear   bool   `json:"clear,omitempty"`
	Command string `json:"command,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string        `json:"type"`
	Line    string        `json:"line,omitempty"`
	Message string        `json:"message,omitempty"`
	Result  *ExecResponse `json:"result,omitempty"`
}
