package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// glamourStyle is based on "dark" with no document margin so code blocks
// line up with the summary above them.
var glamourStyle = []byte(`{
	"document": {
		"block_prefix": "",
		"block_suffix": "",
		"margin": 0,
		"indent": 0
	},
	"paragraph": {
		"margin": 0
	},
	"code_block": {
		"margin": 0,
		"chroma": {
			"theme": "dracula"
		}
	},
	"code": {
		"color": "203"
	}
}`)

// renderJSON highlights a JSON document as a fenced code block.
// Falls back to the raw text if glamour fails.
func renderJSON(doc string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylesFromJSONBytes(glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc
	}

	rendered, err := r.Render("```json\n" + doc + "\n```\n")
	if err != nil {
		return doc
	}

	// Trim leading/trailing newlines glamour adds
	return strings.Trim(rendered, "\n")
}
