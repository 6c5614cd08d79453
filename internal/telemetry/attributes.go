// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Resource attributes
	ServiceNameKey           = "service.name"
	ServiceVersionKey        = "service.version"
	DeploymentEnvironmentKey = "deployment.environment"

	// Render attributes
	RenderRouteKey  = "render.route"
	RenderStatusKey = "render.status"
	RenderBytesKey  = "render.bytes"

	// CSP attributes
	CSPModeKey        = "csp.mode"
	CSPDevelopmentKey = "csp.development"

	// Monograph loader attributes
	MonographIDKey     = "monograph.id"
	MonographCachedKey = "monograph.cached"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// RenderAttributes creates span attributes describing one document render.
func RenderAttributes(route string, status, bytes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RenderRouteKey, route),
		attribute.Int(RenderStatusKey, status),
		attribute.Int(RenderBytesKey, bytes),
	}
}

// CSPAttributes creates span attributes describing the issued policy.
func CSPAttributes(mode string, development bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CSPModeKey, mode),
		attribute.Bool(CSPDevelopmentKey, development),
	}
}

// MonographAttributes creates span attributes for a monograph lookup.
func MonographAttributes(id string, cached bool) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if id != "" {
		attrs = append(attrs, attribute.String(MonographIDKey, id))
	}
	return append(attrs, attribute.Bool(MonographCachedKey, cached))
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
