package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/vshell/internal/domain/session"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// RemoteClient drives a session on a vshell server.
type RemoteClient struct {
	resty     *resty.Client
	sessionID string
}

type apiError struct {
	Error string `json:"error"`
}

type createdSession struct {
	Session session.Info `json:"session"`
	Prompt  string       `json:"prompt"`
	Banner  string       `json:"banner"`
}

// NewRemoteClient creates a client for the server at baseURL.
func NewRemoteClient(baseURL string) *RemoteClient {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "vsh/1.0").
		SetHeader("Content-Type", "application/json")
	return &RemoteClient{resty: r}
}

func (c *RemoteClient) Open(ctx context.Context, user string) (*Greeting, error) {
	var out createdSession
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(types.CreateSessionRequest{User: user}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/sessions")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	c.sessionID = out.Session.ID
	return &Greeting{Banner: out.Banner, Prompt: out.Prompt}, nil
}

func (c *RemoteClient) Exec(ctx context.Context, line string) (*types.ExecResponse, error) {
	if c.sessionID == "" {
		return nil, fmt.Errorf("session not open")
	}
	var out types.ExecResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", c.sessionID).
		SetBody(types.ExecRequest{Line: line}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/sessions/{id}/exec")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RemoteClient) Close(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", c.sessionID).
		SetError(&apiError{}).
		Delete("/sessions/{id}")
	c.sessionID = ""
	return check(resp, err)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*apiError); ok && e.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status(), e.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status())
}
