package cli

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/vshell/internal/domain/session"
	"github.com/GriffinCanCode/vshell/internal/domain/shell"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/server"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Greeting is what a client shows when a session starts.
type Greeting struct {
	Banner string
	Prompt string
}

// Client runs input lines in one shell session.
type Client interface {
	Open(ctx context.Context, user string) (*Greeting, error)
	Exec(ctx context.Context, line string) (*types.ExecResponse, error)
	Close(ctx context.Context) error
}

// LocalClient runs the shell in-process.
type LocalClient struct {
	stack *server.Stack
	sess  *session.Session
}

// NewLocalClient creates a client over stack.
func NewLocalClient(stack *server.Stack) *LocalClient {
	return &LocalClient{stack: stack}
}

func (c *LocalClient) Open(ctx context.Context, user string) (*Greeting, error) {
	sess, err := c.stack.Shell.Open(ctx, user, "")
	if err != nil {
		return nil, err
	}
	c.sess = sess
	return &Greeting{
		Banner: shell.Banner(c.stack.Location),
		Prompt: shell.Prompt(sess),
	}, nil
}

func (c *LocalClient) Exec(ctx context.Context, line string) (*types.ExecResponse, error) {
	if c.sess == nil {
		return nil, fmt.Errorf("session not open")
	}
	return c.stack.Shell.Exec(ctx, c.sess, line)
}

func (c *LocalClient) Close(_ context.Context) error {
	if c.sess != nil {
		c.stack.Sessions.Close(string(c.sess.ID))
		c.sess = nil
	}
	return c.stack.Close()
}
