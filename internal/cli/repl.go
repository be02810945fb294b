package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// Words that end the REPL without reaching the shell.
var exitWords = map[string]bool{"exit": true, "logout": true}

// REPL reads lines and prints what the shell answers.
type REPL struct {
	client Client
	in     io.Reader
	out    io.Writer
	styles Styles
}

// NewREPL creates a REPL reading from in and writing to out.
func NewREPL(client Client, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		client: client,
		in:     in,
		out:    out,
		styles: NewStyles(out),
	}
}

// Run opens a session for user and loops until input ends, an exit word
// is typed or ctx is cancelled. The session is closed on return.
func (r *REPL) Run(ctx context.Context, user string) (err error) {
	greeting, err := r.client.Open(ctx, user)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.client.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintln(r.out, r.styles.Banner.Render(greeting.Banner))
	prompt := r.styles.Prompt(greeting.Prompt)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 4096), utils.MaxLineSize)
	editing := false

	for {
		fmt.Fprint(r.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if !editing && exitWords[strings.TrimSpace(line)] {
			return nil
		}

		resp, err := r.client.Exec(ctx, line)
		if err != nil {
			fmt.Fprintln(r.out, r.styles.Error.Render("vsh: "+err.Error()))
			continue
		}

		if resp.Clear {
			fmt.Fprint(r.out, clearScreen)
		}
		if out := r.styles.Output(resp); out != "" {
			fmt.Fprintln(r.out, out)
		}

		editing = resp.Mode == "editing"
		if editing {
			prompt = r.styles.EditPrompt()
		} else {
			prompt = r.styles.Prompt(resp.Prompt)
		}
	}
}
