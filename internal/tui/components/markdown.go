package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Glamour renderers are costly to build, so keep one per wrap width.
var markdownRenderers sync.Map // map[int]*glamour.TermRenderer

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := markdownRenderers.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	actual, _ := markdownRenderers.LoadOrStore(width, renderer)
	return actual.(*glamour.TermRenderer), nil
}

// renderMarkdown renders content for the terminal, falling back to plain
// word wrapping when glamour fails.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		return content
	}
	renderer, err := markdownRenderer(width)
	if err == nil {
		if out, err := renderer.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordWrap(content, width)
}
