// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/monograph/internal/csp"
	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/monograph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
)

const testNonce = "bm9uY2UtZm9yLXRlc3Rz+/=="

func newTestHandler(t *testing.T, policy csp.Policy) *Handler {
	t.Helper()
	sheet := NewTheme()
	r, err := NewTemplateRenderer(sheet)
	require.NoError(t, err)
	return NewHandler(r, sheet, func() csp.Policy { return policy })
}

func serve(h *Handler, nonce string, status int, page Page) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if nonce != "" {
		req = req.WithContext(csp.ContextWithNonce(req.Context(), nonce))
	}
	rec := httptest.NewRecorder()
	h.Serve(rec, req, status, page)
	return rec
}

// nonceAttrs returns the decoded nonce attribute of every element carrying one.
func nonceAttrs(t *testing.T, doc string) map[string][]string {
	t.Helper()
	out := map[string][]string{}
	z := xhtml.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			require.ErrorIs(t, z.Err(), io.EOF)
			return out
		case xhtml.StartTagToken:
			tok := z.Token()
			for _, a := range tok.Attr {
				if a.Key == "nonce" {
					out[tok.Data] = append(out[tok.Data], a.Val)
				}
			}
		}
	}
}

func TestServe_NonceMatchesPolicy(t *testing.T) {
	h := newTestHandler(t, csp.Policy{})
	rec := serve(h, testNonce, http.StatusOK, HomePage())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, csp.Build(testNonce, false), rec.Header().Get(csp.HeaderName))

	doc := rec.Body.String()
	assert.True(t, strings.HasPrefix(doc, `<!DOCTYPE html><html><head><!--start head-->`))
	assert.True(t, strings.HasSuffix(doc, `</div></body></html>`))

	nonces := nonceAttrs(t, doc)
	require.Equal(t, []string{testNonce}, nonces["script"])
	require.NotEmpty(t, nonces["style"])
	for _, n := range nonces["style"] {
		assert.Equal(t, testNonce, n)
	}
}

func TestServe_DevelopmentAndReportURI(t *testing.T) {
	h := newTestHandler(t, csp.Policy{Development: true, ReportURI: "/api/csp-report"})
	rec := serve(h, testNonce, http.StatusOK, HomePage())

	header := rec.Header().Get(csp.HeaderName)
	assert.True(t, strings.HasPrefix(header, csp.Build(testNonce, true)))
	assert.True(t, strings.HasSuffix(header, "; report-uri /api/csp-report"))
	assert.Contains(t, header, "ws://localhost:*")
}

func TestServe_WithoutNonce(t *testing.T) {
	h := newTestHandler(t, csp.Policy{})
	rec := serve(h, "", http.StatusOK, HomePage())

	header := rec.Header().Get(csp.HeaderName)
	assert.Equal(t, csp.Build("", false), header)
	assert.NotContains(t, header, "'nonce-")
	assert.Empty(t, nonceAttrs(t, rec.Body.String()))
}

func TestServe_CriticalCSSOnlyUsedRules(t *testing.T) {
	sheet := NewTheme()
	statusClass, err := sheet.Class("status")
	require.NoError(t, err)
	layoutClass, err := sheet.Class("layout")
	require.NoError(t, err)

	h := newTestHandler(t, csp.Policy{})
	doc := serve(h, testNonce, http.StatusOK, HomePage()).Body.String()

	head := doc[:strings.Index(doc, "<!--end head-->")]
	assert.Contains(t, head, "."+layoutClass+"{")
	assert.NotContains(t, head, "."+statusClass+"{", "status rule is not used by the home body")
	assert.Contains(t, head, `data-emotion="css-global"`)
}

func TestServe_Monograph(t *testing.T) {
	h := newTestHandler(t, csp.Policy{})
	m := &monograph.Monograph{
		ID:            "hello",
		Title:         "Hello <World>",
		Content:       monograph.Content{Type: "html", Data: "<p>Body text</p>"},
		DatePublished: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	doc := serve(h, testNonce, http.StatusOK, MonographPage(m)).Body.String()

	assert.Contains(t, doc, "<title>Hello &lt;World&gt;</title>")
	assert.Contains(t, doc, "<p>Body text</p>")
	assert.Contains(t, doc, `<time datetime="2024-05-01">May 1, 2024</time>`)
}

func TestServe_NotFoundStatus(t *testing.T) {
	h := newTestHandler(t, csp.Policy{})
	rec := serve(h, testNonce, http.StatusNotFound, NotFoundPage("/{id}"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ">404<")
	assert.Equal(t, csp.Build(testNonce, false), rec.Header().Get(csp.HeaderName))
}

type failingRenderer struct {
	Renderer
	failView string
}

func (f failingRenderer) RenderBody(w io.Writer, p Page) error {
	if p.View == f.failView {
		return errors.New("boom")
	}
	return f.Renderer.RenderBody(w, p)
}

func TestServe_RenderFailureUsesFallbackPolicy(t *testing.T) {
	sheet := NewTheme()
	base, err := NewTemplateRenderer(sheet)
	require.NoError(t, err)
	h := NewHandler(failingRenderer{Renderer: base, failView: ViewHome}, sheet, nil)

	rec := serve(h, testNonce, http.StatusOK, HomePage())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	header := rec.Header().Get(csp.HeaderName)
	assert.Equal(t, "script-src 'self' 'report-sample' 'strict-dynamic'; connect-src 'self'; form-action 'self'; object-src 'none'; block-all-mixed-content; base-uri 'self'; manifest-src 'self'", header)
	assert.NotContains(t, rec.Body.String(), testNonce)
	assert.Contains(t, rec.Body.String(), ">500<")
}

func TestServe_RenderFailureLogsView(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { log.Configure(log.Config{Level: "info"}) })

	sheet := NewTheme()
	base, err := NewTemplateRenderer(sheet)
	require.NoError(t, err)
	h := NewHandler(failingRenderer{Renderer: base, failView: ViewHome}, sheet, nil)

	serve(h, testNonce, http.StatusOK, HomePage())

	out := buf.String()
	assert.Contains(t, out, `"`+log.FieldEvent+`":"render.failed"`)
	assert.Contains(t, out, `"`+log.FieldView+`":"`+ViewHome+`"`)
}

func TestServe_ErrorPageFailureStillResponds(t *testing.T) {
	sheet := NewTheme()
	base, err := NewTemplateRenderer(sheet)
	require.NoError(t, err)
	h := NewHandler(failingRenderer{Renderer: base, failView: ViewError}, sheet, nil)

	rec := serve(h, testNonce, http.StatusOK, Page{Route: "/", View: "missing"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, csp.Build("", false), rec.Header().Get(csp.HeaderName))
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestTemplateRenderer_UnknownView(t *testing.T) {
	r, err := NewTemplateRenderer(NewTheme())
	require.NoError(t, err)

	var b strings.Builder
	assert.ErrorContains(t, r.RenderBody(&b, Page{View: "nope"}), `unknown view "nope"`)
}

func TestRenderContent_EscapesNonHTML(t *testing.T) {
	got := renderContent(monograph.Content{Type: "text", Data: "<b>x</b>"})
	assert.Equal(t, "<p>&lt;b&gt;x&lt;/b&gt;</p>", string(got))
}
