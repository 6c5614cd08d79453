// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import "strings"

const (
	docOpen   = `<!DOCTYPE html><html><head><!--start head-->`
	docHead   = `<!--end head--></head><body><div id="root">`
	docClose  = `</div></body></html>`
	docFrames = len(docOpen) + len(docHead) + len(docClose)
)

// Document assembles the HTML shell. head and styles are placed between the
// head markers, body inside the root container. Inputs are trusted markup.
func Document(head, styles, body string) string {
	var b strings.Builder
	b.Grow(docFrames + len(head) + len(styles) + len(body))
	b.WriteString(docOpen)
	b.WriteString(head)
	b.WriteString(styles)
	b.WriteString(docHead)
	b.WriteString(body)
	b.WriteString(docClose)
	return b.String()
}
