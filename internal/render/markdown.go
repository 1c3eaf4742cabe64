package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders content for the terminal. Without color the plain
// "notty" style is used.
func (r *Renderer) Markdown(content string) (string, error) {
	style := "notty"
	if r.opts.Color {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.opts.Width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := tr.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
