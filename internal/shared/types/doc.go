// Package types provides shared data structures for vshell.
//
// Core Types:
//   - Service: provider definition with its tools
//   - Tool: one executable operation, optionally bound to a shell command
//   - Context: per-call session state (user, home, cwd)
//   - Result: uniform success/failure payload
//
// Request Types:
//   - ExecRequest, ExecuteRequest, CreateSessionRequest: HTTP bodies
//   - WSMessage: WebSocket frames
package types
