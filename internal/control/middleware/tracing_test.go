// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestShouldTrace(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		if shouldTrace(req) {
			t.Errorf("expected shouldTrace to skip %s", p)
		}
	}

	for _, p := range []string{"/", "/abc123", "/assets/app.js"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		if !shouldTrace(req) {
			t.Errorf("expected shouldTrace to trace %s", p)
		}
	}
}

func TestSpanNameFormatter(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	if got := spanNameFormatter("HTTP GET", req); got != "HTTP GET /abc123" {
		t.Fatalf("unexpected span name: %s", got)
	}

	reqWithQuery := httptest.NewRequest(http.MethodGet, "/abc123?token=secret", nil)
	if got := spanNameFormatter("HTTP GET", reqWithQuery); got != "HTTP GET /abc123?" {
		t.Fatalf("unexpected span name with query: %s", got)
	}
}

func TestTracing_RecordsServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	}()

	handler := Tracing("monograph")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abc123", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected exactly one traced request, got %d spans", len(spans))
	}
	if spans[0].Name() != "monograph /abc123" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
}
