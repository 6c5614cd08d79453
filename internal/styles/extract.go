// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package styles

import (
	"html"
	"sort"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Chunk is one group of component rules emitted in a single style tag.
type Chunk struct {
	Key string
	IDs []string
	CSS string
}

// Chunks is the critical CSS of one rendered body.
type Chunks struct {
	Key    string
	Global string
	Styles []Chunk
}

// ExtractCritical scans body for class attributes and returns the rules of
// every class of this sheet that the body uses. Unknown or foreign classes
// are ignored.
func (s *Sheet) ExtractCritical(body string) Chunks {
	used := usedClasses(body, s.key+"-")

	s.mu.RLock()
	ids := make([]string, 0, len(used))
	var css strings.Builder
	for _, id := range s.ids() {
		if _, ok := used[id]; !ok {
			continue
		}
		rule, ok := s.rule(id)
		if !ok {
			continue
		}
		ids = append(ids, id)
		css.WriteString(rule)
	}
	s.mu.RUnlock()

	chunks := Chunks{Key: s.key, Global: s.globalCSS()}
	if len(ids) > 0 {
		sort.Strings(ids)
		chunks.Styles = []Chunk{{Key: s.key, IDs: ids, CSS: css.String()}}
	}
	return chunks
}

// usedClasses returns the ids of classes in body that carry prefix.
func usedClasses(body, prefix string) map[string]struct{} {
	used := make(map[string]struct{})
	z := xhtml.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			// io.EOF, or malformed input; keep what was collected.
			return used
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			for {
				key, val, more := z.TagAttr()
				if string(key) == "class" {
					for _, class := range strings.Fields(string(val)) {
						if id, ok := strings.CutPrefix(class, prefix); ok && id != "" {
							used[id] = struct{}{}
						}
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

// StyleTags renders chunks as style elements. The global chunk comes first so
// component rules win on equal specificity. nonce is added when non-empty.
func StyleTags(chunks Chunks, nonce string) string {
	var b strings.Builder
	nonceAttr := ""
	if nonce != "" {
		nonceAttr = ` nonce="` + html.EscapeString(nonce) + `"`
	}
	if chunks.Global != "" {
		b.WriteString(`<style data-emotion="`)
		key := chunks.Key
		if key == "" {
			key = DefaultKey
		}
		b.WriteString(html.EscapeString(key + "-global"))
		b.WriteString(`"`)
		b.WriteString(nonceAttr)
		b.WriteString(">")
		b.WriteString(escapeStyleText(chunks.Global))
		b.WriteString("</style>")
	}
	for _, c := range chunks.Styles {
		b.WriteString(`<style data-emotion="`)
		b.WriteString(html.EscapeString(c.Key + " " + strings.Join(c.IDs, " ")))
		b.WriteString(`"`)
		b.WriteString(nonceAttr)
		b.WriteString(">")
		b.WriteString(escapeStyleText(c.CSS))
		b.WriteString("</style>")
	}
	return b.String()
}

// escapeStyleText keeps rule text from closing the style element early.
func escapeStyleText(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
