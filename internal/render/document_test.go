// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Shell(t *testing.T) {
	got := Document(`<title>T</title>`, `<style data-emotion="css-global">body{}</style>`, `<p>hi</p>`)
	want := `<!DOCTYPE html><html><head><!--start head--><title>T</title><style data-emotion="css-global">body{}</style><!--end head--></head><body><div id="root"><p>hi</p></div></body></html>`
	assert.Equal(t, want, got)
}

func TestDocument_Empty(t *testing.T) {
	assert.Equal(t,
		`<!DOCTYPE html><html><head><!--start head--><!--end head--></head><body><div id="root"></div></body></html>`,
		Document("", "", ""))
}
