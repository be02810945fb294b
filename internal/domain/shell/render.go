package shell

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// HTMLRenderer turns responses into markup for browser terminals. Text is
// escaped and styled spans become <span class="..."> elements; the result
// is passed through a sanitizer that admits nothing else.
type HTMLRenderer struct {
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates a renderer
func NewHTMLRenderer() *HTMLRenderer {
	policy := bluemonday.NewPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^(dir|error)$`)).OnElements("span")
	policy.AllowElements("br")
	return &HTMLRenderer{policy: policy}
}

// Render returns the HTML form of a response's output.
func (r *HTMLRenderer) Render(resp *types.ExecResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	switch {
	case resp.Error:
		b.WriteString(`<span class="error">`)
		writeText(&b, resp.Output)
		b.WriteString(`</span>`)
	case len(resp.Spans) > 0:
		for _, span := range resp.Spans {
			if span.Style == "" {
				writeText(&b, span.Text)
				continue
			}
			b.WriteString(`<span class="`)
			b.WriteString(html.EscapeString(span.Style))
			b.WriteString(`">`)
			writeText(&b, span.Text)
			b.WriteString(`</span>`)
		}
	default:
		writeText(&b, resp.Output)
	}
	return r.policy.Sanitize(b.String())
}

func writeText(b *strings.Builder, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(line))
	}
}
