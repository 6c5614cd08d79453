// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	defer Configure(Config{})

	var ctxLoggerUsable bool
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLoggerUsable = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/abc", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "rid-1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ctxLoggerUsable {
		t.Error("expected a logger attached to the request context")
	}

	var entry map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err == nil && e[FieldEvent] == "request.handled" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatal("no request.handled log line written")
	}
	if entry[FieldStatus] != float64(http.StatusTeapot) {
		t.Errorf("status = %v, want 418", entry[FieldStatus])
	}
	if entry[FieldPath] != "/abc" || entry[FieldRequestID] != "rid-1" {
		t.Errorf("unexpected fields: %v", entry)
	}
}
