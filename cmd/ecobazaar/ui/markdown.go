package ui

import "github.com/charmbracelet/glamour"

// Markdown renders a markdown document for the terminal. Used for the
// product detail view.
func Markdown(doc string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(doc)
}
