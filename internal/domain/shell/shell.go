package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/session"
	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// WriteTool is the tool that saves an edit buffer.
const WriteTool = "filesystem.write"

// Tools after which the working directory may no longer exist.
var relocating = map[string]bool{
	"filesystem.rm":    true,
	"filesystem.rmdir": true,
	"filesystem.mv":    true,
	"filesystem.reset": true,
}

// Registry resolves commands and executes tools.
type Registry interface {
	Command(name string) (types.Tool, bool)
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Repository is the tree the shell keeps session directories valid in.
type Repository interface {
	View(ctx context.Context, fn func(*vfs.Tree) error) error
	Mutate(ctx context.Context, fn func(*vfs.Tree) error) error
	Reset(ctx context.Context) (*vfs.Tree, error)
}

// Shell dispatches input lines for sessions
type Shell struct {
	registry Registry
	repo     Repository
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *logging.Logger

	// epoch counts runs of relocating tools. A session whose cwd was last
	// checked at an older epoch is revalidated before its next command.
	epoch atomic.Uint64
}

// New creates a shell
func New(registry Registry, repo Repository, sessions *session.Manager, logger *logging.Logger) *Shell {
	return &Shell{
		registry: registry,
		repo:     repo,
		sessions: sessions,
		logger:   logging.OrNop(logger).Named("shell"),
	}
}

// WithMetrics adds command metrics to the shell
func (s *Shell) WithMetrics(metrics *monitoring.Metrics) *Shell {
	s.metrics = metrics
	return s
}

// Sessions returns the session manager
func (s *Shell) Sessions() *session.Manager {
	return s.sessions
}

var errHomeExists = errors.New("home exists")

// Open creates a session for user and makes sure its home directory
// exists in the tree.
func (s *Shell) Open(ctx context.Context, user, home string) (*session.Session, error) {
	sess, err := s.sessions.Create(user, home)
	if err != nil {
		return nil, err
	}

	err = s.repo.Mutate(ctx, func(t *vfs.Tree) error {
		if _, ok := t.ResolveDirectory(sess.Home); ok {
			return errHomeExists
		}
		_, err := t.MkdirAll(sess.Home)
		return err
	})
	if err != nil && !errors.Is(err, errHomeExists) {
		s.sessions.Close(string(sess.ID))
		return nil, fmt.Errorf("failed to prepare home %s: %w", sess.Home, err)
	}

	s.logger.Info("Session opened",
		zap.String("session_id", string(sess.ID)),
		zap.String("user", sess.User),
		zap.String("home", sess.Home))
	return sess, nil
}

// Exec runs one input line. The returned error is reserved for storage
// and other infrastructure failures; command failures are reported in the
// response.
func (s *Shell) Exec(ctx context.Context, sess *session.Session, line string) (*types.ExecResponse, error) {
	release := sess.Acquire()
	defer release()

	if err := s.ensureCwd(ctx, sess); err != nil {
		return nil, err
	}

	if state, editing := sess.Editing(); editing {
		return s.feedEdit(ctx, sess, state, line)
	}

	sess.Record(line)

	words, err := Tokenize(line)
	if err != nil {
		return s.respond(sess, "", fmt.Sprintf("vsh: syntax error: %v", err), true), nil
	}
	if len(words) == 0 {
		return s.respond(sess, "", "", false), nil
	}

	name, args := words[0], words[1:]
	tool, ok := s.registry.Command(name)
	if !ok {
		return s.respond(sess, name, fmt.Sprintf("%s: command not found. Type 'help' for available commands.", name), true), nil
	}

	result, err := s.run(ctx, sess, name, tool.ID, map[string]interface{}{"args": args})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	// A partly failed batch may still have moved or removed the cwd.
	if err := s.afterRun(ctx, sess, tool.ID, result); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	resp := s.respond(sess, name, result.Text(), !result.Success)
	resp.Spans = result.Spans()
	if !result.Success {
		return resp, nil
	}
	if target, ok := result.Data[types.KeyEdit].(string); ok && target != "" {
		display := target
		if len(args) > 0 {
			display = args[0]
		}
		sess.BeginEdit(target, display)
	}
	if clr, ok := result.Data[types.KeyClear].(bool); ok {
		resp.Clear = clr
	}

	resp.Cwd, resp.Prompt, resp.Mode = sess.Cwd(), Prompt(sess), sess.Mode().String()
	return resp, nil
}

// Invoke runs a tool directly on behalf of a session, bypassing the
// tokenizer. A returned working directory is applied to the session.
func (s *Shell) Invoke(ctx context.Context, sess *session.Session, toolID string, params map[string]interface{}) (*types.Result, error) {
	release := sess.Acquire()
	defer release()

	if err := s.ensureCwd(ctx, sess); err != nil {
		return nil, err
	}

	result, err := s.run(ctx, sess, toolID, toolID, params)
	if err != nil {
		return nil, err
	}
	if err := s.afterRun(ctx, sess, toolID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// afterRun applies a working directory returned by a successful tool and
// revalidates the cwd after any run of a relocating tool.
func (s *Shell) afterRun(ctx context.Context, sess *session.Session, toolID string, result *types.Result) error {
	if result.Success {
		if cwd, ok := result.Data[types.KeyCwd].(string); ok && cwd != "" {
			sess.SetCwd(cwd)
		}
	}
	if !relocating[toolID] {
		return nil
	}
	s.epoch.Add(1)
	return s.ensureCwd(ctx, sess)
}

// ensureCwd revalidates the session's cwd when a relocating tool ran since
// it was last checked, in this session or another.
func (s *Shell) ensureCwd(ctx context.Context, sess *session.Session) error {
	epoch := s.epoch.Load()
	if sess.CheckedEpoch() == epoch {
		return nil
	}
	if err := s.revalidateCwd(ctx, sess); err != nil {
		return err
	}
	sess.SetCheckedEpoch(epoch)
	return nil
}

// Reset restores the seed tree, recreates the home directory of every
// open session and moves each session back home.
func (s *Shell) Reset(ctx context.Context) error {
	if _, err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset file system: %w", err)
	}

	var open []*session.Session
	for _, info := range s.sessions.List() {
		if sess, ok := s.sessions.Get(info.ID); ok {
			open = append(open, sess)
		}
	}

	err := s.repo.Mutate(ctx, func(t *vfs.Tree) error {
		created := false
		for _, sess := range open {
			if _, ok := t.ResolveDirectory(sess.Home); ok {
				continue
			}
			if _, err := t.MkdirAll(sess.Home); err != nil {
				return err
			}
			created = true
		}
		if !created {
			return errHomeExists
		}
		return nil
	})
	if err != nil && !errors.Is(err, errHomeExists) {
		return fmt.Errorf("failed to prepare homes: %w", err)
	}

	epoch := s.epoch.Add(1)
	for _, sess := range open {
		sess.SetCwd(sess.Home)
		sess.SetCheckedEpoch(epoch)
	}
	s.logger.Warn("File system reset", zap.Int("sessions", len(open)))
	return nil
}

// feedEdit buffers a line of an edit in progress and saves on EOF.
func (s *Shell) feedEdit(ctx context.Context, sess *session.Session, state session.EditState, line string) (*types.ExecResponse, error) {
	target, content, done := sess.FeedEdit(line)
	if !done {
		return s.respond(sess, "", "", false), nil
	}

	result, err := s.run(ctx, sess, "edit", WriteTool, map[string]interface{}{
		"path":    target,
		"content": content,
		"name":    state.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}
	return s.respond(sess, "edit", result.Text(), !result.Success), nil
}

func (s *Shell) run(ctx context.Context, sess *session.Session, name, toolID string, params map[string]interface{}) (*types.Result, error) {
	service := toolID
	if i := strings.IndexByte(toolID, '.'); i > 0 {
		service = toolID[:i]
	}
	timer := monitoring.NewTimer(s.metrics, service, toolID)

	result, err := s.registry.Execute(ctx, toolID, params, sess.Context())
	switch {
	case err != nil:
		d := timer.Stop("error")
		s.logger.Warn("Command failed",
			zap.String("command", name),
			zap.String("session_id", string(sess.ID)),
			zap.String("request_id", tracing.RequestID(ctx)),
			zap.Duration("duration", d),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordCommandError(service, toolID, "internal")
		}
		return nil, err
	case result == nil:
		timer.Stop("error")
		return nil, fmt.Errorf("tool %s returned no result", toolID)
	case !result.Success:
		d := timer.Stop("failure")
		s.logger.Debug("Command rejected",
			zap.String("command", name),
			zap.String("session_id", string(sess.ID)),
			zap.String("request_id", tracing.RequestID(ctx)),
			zap.Duration("duration", d),
			zap.String("error", result.Text()))
		if s.metrics != nil {
			s.metrics.RecordCommandError(service, toolID, "failure")
		}
	default:
		d := timer.Stop("success")
		s.logger.Debug("Command executed",
			zap.String("command", name),
			zap.String("session_id", string(sess.ID)),
			zap.String("request_id", tracing.RequestID(ctx)),
			zap.Duration("duration", d))
	}
	return result, nil
}

// revalidateCwd moves the session to the nearest existing ancestor when
// its working directory was removed or moved away.
func (s *Shell) revalidateCwd(ctx context.Context, sess *session.Session) error {
	cwd := sess.Cwd()
	return s.repo.View(ctx, func(t *vfs.Tree) error {
		dir := cwd
		for {
			if _, ok := t.ResolveDirectory(dir); ok {
				break
			}
			dir, _ = paths.Split(dir)
		}
		if dir != cwd {
			sess.SetCwd(dir)
		}
		return nil
	})
}

func (s *Shell) respond(sess *session.Session, command, output string, failed bool) *types.ExecResponse {
	return &types.ExecResponse{
		Output:  output,
		Error:   failed,
		Cwd:     sess.Cwd(),
		Prompt:  Prompt(sess),
		Mode:    sess.Mode().String(),
		Command: command,
	}
}

// Prompt renders "user@host:dir$", showing the home directory as "~".
func Prompt(sess *session.Session) string {
	dir := sess.Cwd()
	if dir == sess.Home {
		dir = "~"
	}
	return fmt.Sprintf("%s@%s:%s$", sess.User, types.Hostname, dir)
}

// Banner is shown when an interactive session starts. location describes
// where the file system snapshot lives.
func Banner(location string) string {
	return strings.Join([]string{
		"Linux Terminal Emulator v2.0 (Browser Edition)",
		fmt.Sprintf("File system is persisted to %s.", location),
		"To reset the file system, type 'clear_fs'.",
		"Type 'help' to see available commands.",
	}, "\n")
}
