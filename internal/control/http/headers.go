// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

// Canonical Header Names
const (
	// HeaderRequestID is the canonical header for request correlation.
	HeaderRequestID = "X-Request-ID"
	// HeaderContentType is set on every document and problem response.
	HeaderContentType = "Content-Type"
)

// Canonical content types
const (
	ContentTypeHTML    = "text/html; charset=utf-8"
	ContentTypeProblem = "application/problem+json"
)

// Canonical JSON Field Names
const (
	// JSONKeyRequestID is the canonical JSON key for request correlation in DTOs.
	JSONKeyRequestID = "requestId"
)
