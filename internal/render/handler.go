// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package render is the server-side document entry point. It renders the head
// and body fragments of a page, inlines the critical CSS and attaches the
// Content-Security-Policy that matches the nonce the document was rendered with.
package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	controlhttp "github.com/ManuGH/monograph/internal/control/http"
	"github.com/ManuGH/monograph/internal/csp"
	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/metrics"
	"github.com/ManuGH/monograph/internal/styles"
	"github.com/ManuGH/monograph/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PolicySource returns the policy settings in effect for the next response.
type PolicySource func() csp.Policy

// Handler writes documents.
type Handler struct {
	renderer Renderer
	sheet    *styles.Sheet
	policy   PolicySource
}

// NewHandler creates a document handler. A nil policy source yields the
// production policy without a report endpoint.
func NewHandler(renderer Renderer, sheet *styles.Sheet, policy PolicySource) *Handler {
	if policy == nil {
		policy = func() csp.Policy { return csp.Policy{} }
	}
	return &Handler{renderer: renderer, sheet: sheet, policy: policy}
}

// Serve renders page and writes it with status. The nonce is taken from the
// request context. If rendering fails the error document is written instead,
// with status 500, no nonce and the fallback policy.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, status int, page Page) {
	start := time.Now()
	ctx := r.Context()
	logger := log.WithComponentFromContext(ctx, "render")
	span := trace.SpanFromContext(ctx)

	page.Nonce = csp.NonceFromContext(ctx)
	doc, cssBytes, err := h.assemble(page)
	if err != nil {
		logger.Error().Err(err).
			Str(log.FieldEvent, "render.failed").
			Str(log.FieldRoute, page.Route).
			Str(log.FieldView, page.View).
			Msg("document render failed, serving error page")
		metrics.IncRenderFailure(page.Route)
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(err, "render")...)
		span.SetStatus(codes.Error, "render failed")

		status = http.StatusInternalServerError
		page = ErrorPage(page.Route, status)
		doc, cssBytes, err = h.assemble(page)
		if err != nil {
			logger.Error().Err(err).Str(log.FieldEvent, "render.error_page_failed").Msg("error page render failed")
			doc, cssBytes = Document("<title>Internal Server Error</title>", "", "Internal Server Error"), 0
		}
	}

	policy := h.policy()
	mode := csp.Mode(page.Nonce)

	w.Header().Set(controlhttp.HeaderContentType, controlhttp.ContentTypeHTML)
	w.Header().Set(csp.HeaderName, policy.Header(page.Nonce))
	w.WriteHeader(status)
	if _, err := io.WriteString(w, doc); err != nil {
		logger.Debug().Err(err).Msg("client went away while writing document")
	}

	metrics.ObserveRender(page.Route, status, time.Since(start))
	metrics.IncCSPPolicy(mode, policy.Development)
	metrics.ObserveCriticalCSS(cssBytes)
	span.SetAttributes(telemetry.RenderAttributes(page.Route, status, len(doc))...)
	span.SetAttributes(telemetry.CSPAttributes(mode, policy.Development)...)
}

// assemble renders head then body, extracts the critical CSS of the body and
// builds the document. It returns the number of inlined CSS bytes.
func (h *Handler) assemble(page Page) (string, int, error) {
	var head, body bytes.Buffer
	if err := h.renderer.RenderHead(&head, page); err != nil {
		return "", 0, fmt.Errorf("render head: %w", err)
	}
	if err := h.renderer.RenderBody(&body, page); err != nil {
		return "", 0, fmt.Errorf("render body: %w", err)
	}

	chunks := h.sheet.ExtractCritical(body.String())
	cssBytes := len(chunks.Global)
	for _, c := range chunks.Styles {
		cssBytes += len(c.CSS)
	}
	return Document(head.String(), styles.StyleTags(chunks, page.Nonce), body.String()), cssBytes, nil
}
