// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldMonograph = "monograph_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldRoute      = "route"
	FieldRemoteAddr = "remote_addr"
	FieldDuration   = "duration_ms"

	// Render fields
	FieldView = "view"

	// CSP fields
	FieldCSPMode     = "csp_mode"
	FieldDirective   = "directive"
	FieldBlockedURI  = "blocked_uri"
	FieldDocumentURI = "document_uri"
)
