package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// Styles renders prompts and command output.
type Styles struct {
	Host   lipgloss.Style
	Path   lipgloss.Style
	Dir    lipgloss.Style
	Error  lipgloss.Style
	Banner lipgloss.Style
	Edit   lipgloss.Style
}

// NewStyles creates styles for w. Writers that are not terminals get
// plain text.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Host:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4EC94E")),
		Path:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5C9EFF")),
		Dir:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5C9EFF")),
		Error:  r.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Banner: r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Edit:   r.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
	}
}

// Prompt styles "user@host:dir$" and appends a space.
func (s Styles) Prompt(prompt string) string {
	i := strings.IndexByte(prompt, ':')
	if i <= 0 || !strings.HasSuffix(prompt, "$") {
		return prompt + " "
	}
	return s.Host.Render(prompt[:i]) + ":" + s.Path.Render(prompt[i+1:len(prompt)-1]) + "$ "
}

// EditPrompt is shown while an edit buffer is open.
func (s Styles) EditPrompt() string {
	return s.Edit.Render(">") + " "
}

// Output renders a response without a trailing newline.
func (s Styles) Output(resp *types.ExecResponse) string {
	switch {
	case resp.Error:
		return s.Error.Render(resp.Output)
	case len(resp.Spans) > 0:
		var b strings.Builder
		for _, span := range resp.Spans {
			if span.Style == types.StyleDir {
				b.WriteString(s.Dir.Render(span.Text))
			} else {
				b.WriteString(span.Text)
			}
		}
		return b.String()
	default:
		return resp.Output
	}
}
