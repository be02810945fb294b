package session

import (
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/vshell/internal/shared/id"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Mode is the input mode of a session.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "normal"
}

// EditTerminator ends an edit buffer when it appears alone on a line.
const EditTerminator = "EOF"

// EditState is the buffer of an edit in progress.
type EditState struct {
	Target string
	Name   string
	Buffer []string
}

// Session is one interactive shell.
type Session struct {
	ID        id.SessionID
	User      string
	Home      string
	CreatedAt time.Time

	cwd          string
	history      []string
	historyLimit int
	edit         *EditState
	lastActive   time.Time
	checked      uint64

	mu   sync.RWMutex
	exec sync.Mutex
}

// Info is a read-only view of a session.
type Info struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	Home       string    `json:"home"`
	Cwd        string    `json:"cwd"`
	Mode       string    `json:"mode"`
	History    int       `json:"history"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Acquire serialises command execution within the session and returns
// the release function.
func (s *Session) Acquire() func() {
	s.exec.Lock()
	return s.exec.Unlock
}

// Context returns the session state passed to providers.
func (s *Session) Context() *types.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &types.Context{
		SessionID: string(s.ID),
		User:      s.User,
		Home:      s.Home,
		Cwd:       s.cwd,
	}
}

// Cwd returns the current working directory.
func (s *Session) Cwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

// SetCwd changes the working directory. The caller has checked that it
// names an existing directory.
func (s *Session) SetCwd(path string) {
	s.mu.Lock()
	s.cwd = path
	s.mu.Unlock()
}

// CheckedEpoch returns the shell epoch at which the cwd was last verified.
func (s *Session) CheckedEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checked
}

// SetCheckedEpoch records that the cwd was verified at epoch.
func (s *Session) SetCheckedEpoch(epoch uint64) {
	s.mu.Lock()
	s.checked = epoch
	s.mu.Unlock()
}

// Record appends a non-blank line to the history, dropping the oldest
// entries beyond the limit.
func (s *Session) Record(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	if s.historyLimit == 0 {
		return
	}
	s.history = append(s.history, line)
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		s.history = append([]string(nil), s.history[len(s.history)-s.historyLimit:]...)
	}
}

// History returns a copy of the recorded lines, oldest first.
func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}

// ClearHistory drops every recorded line.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Mode returns the current input mode.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.edit != nil {
		return ModeEditing
	}
	return ModeNormal
}

// BeginEdit switches to ModeEditing for the normalized target path. name
// is the path as the user typed it; it defaults to target.
func (s *Session) BeginEdit(target, name string) {
	if name == "" {
		name = target
	}
	s.mu.Lock()
	s.edit = &EditState{Target: target, Name: name}
	s.mu.Unlock()
}

// Editing returns a copy of the edit in progress.
func (s *Session) Editing() (EditState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.edit == nil {
		return EditState{}, false
	}
	return EditState{Target: s.edit.Target, Name: s.edit.Name, Buffer: append([]string(nil), s.edit.Buffer...)}, true
}

// FeedEdit adds a line to the edit buffer. When the line is the
// terminator the session returns to ModeNormal and done is true, with
// the buffered lines joined by newlines as content.
func (s *Session) FeedEdit(line string) (target, content string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit == nil {
		return "", "", false
	}
	if line != EditTerminator {
		s.edit.Buffer = append(s.edit.Buffer, line)
		return s.edit.Target, "", false
	}

	target = s.edit.Target
	content = strings.Join(s.edit.Buffer, "\n")
	s.edit = nil
	return target, content, true
}

// CancelEdit discards an edit in progress.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()
}

// Info returns a snapshot of the session for listing.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode := ModeNormal
	if s.edit != nil {
		mode = ModeEditing
	}
	return Info{
		ID:         string(s.ID),
		User:       s.User,
		Home:       s.Home,
		Cwd:        s.cwd,
		Mode:       mode.String(),
		History:    len(s.history),
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
	}
}
