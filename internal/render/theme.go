// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import "github.com/ManuGH/monograph/internal/styles"

// NewTheme returns the sheet used by the built-in templates.
func NewTheme() *styles.Sheet {
	s := styles.NewSheet(styles.DefaultKey)

	s.Global(`*,*::before,*::after{box-sizing:border-box}`)
	s.Global(`html{color-scheme:dark}body{margin:0;background:#111318;color:#e6e6e6;font:16px/1.6 system-ui,-apple-system,"Segoe UI",sans-serif}`)
	s.Global(`a{color:inherit}`)

	s.Define("layout", `max-width:44rem;margin:0 auto;padding:2rem 1.25rem`)
	s.Define("header", `display:flex;align-items:baseline;justify-content:space-between;margin-bottom:2.5rem`)
	s.Define("brand", `font-weight:700;letter-spacing:.02em;text-decoration:none`)
	s.Define("title", `font-size:2rem;line-height:1.2;margin:0 0 .5rem`)
	s.Define("meta", `color:#9aa0aa;font-size:.875rem;margin:0 0 2rem`)
	s.Define("article", `overflow-wrap:anywhere`)
	s.Define("status", `font-size:4rem;font-weight:800;margin:0;color:#f27f7f`)
	s.Define("muted", `color:#9aa0aa`)

	return s
}
