package session

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/vshell/internal/shared/id"
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// Manager holds open sessions.
type Manager struct {
	sessions     sync.Map // id.SessionID -> *Session
	count        atomic.Int64
	historyLimit int
	onChange     func(active int)
}

// NewManager creates a manager. historyLimit bounds each session's
// history; a negative value means unbounded, zero disables recording.
func NewManager(historyLimit int) *Manager {
	return &Manager{historyLimit: historyLimit}
}

// OnChange registers a callback invoked with the active count after a
// session opens or closes.
func (m *Manager) OnChange(fn func(active int)) {
	m.onChange = fn
}

// Create opens a session for user. An empty home defaults to
// /home/<user>. The working directory starts at home.
func (m *Manager) Create(user, home string) (*Session, error) {
	if err := utils.ValidateUsername(user); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if home == "" {
		home = paths.Home(user)
	}
	home = paths.Normalize(home, paths.Root, paths.Root)

	now := time.Now()
	s := &Session{
		ID:           id.NewSessionID(),
		User:         user,
		Home:         home,
		CreatedAt:    now,
		cwd:          home,
		historyLimit: m.historyLimit,
		lastActive:   now,
	}

	m.sessions.Store(s.ID, s)
	m.notify(m.count.Add(1))
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	val, ok := m.sessions.Load(id.SessionID(sessionID))
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// List returns all sessions, oldest first.
func (m *Manager) List() []Info {
	var out []Info
	m.sessions.Range(func(_, value interface{}) bool {
		out = append(out, value.(*Session).Info())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close removes a session. It reports whether the session existed.
func (m *Manager) Close(sessionID string) bool {
	if _, ok := m.sessions.LoadAndDelete(id.SessionID(sessionID)); !ok {
		return false
	}
	m.notify(m.count.Add(-1))
	return true
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	return int(m.count.Load())
}

func (m *Manager) notify(active int64) {
	if m.onChange != nil {
		m.onChange(int(active))
	}
}
