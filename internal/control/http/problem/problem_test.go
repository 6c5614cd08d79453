// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/monograph/internal/log"
)

func TestWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/csp-report", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "rid-7"))
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusBadRequest, "csp/report_invalid", "Bad Request", "INVALID_REPORT", "body is not JSON",
		map[string]any{"hint": "send application/csp-report", "status": 999})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "rid-7", rec.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "csp/report_invalid", body["type"])
	assert.Equal(t, "INVALID_REPORT", body["code"])
	assert.Equal(t, "/api/csp-report", body["instance"])
	assert.Equal(t, "rid-7", body["requestId"])
	assert.Equal(t, "send application/csp-report", body["hint"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"], "reserved keys must not be overwritten")
}
