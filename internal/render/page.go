// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"net/http"

	"github.com/ManuGH/monograph/internal/monograph"
)

// Views known to the template renderer.
const (
	ViewHome      = "home"
	ViewMonograph = "monograph"
	ViewNotFound  = "notfound"
	ViewError     = "error"
)

// Page is everything a view needs to render one document.
type Page struct {
	Route string // route pattern, used for metrics and tracing
	View  string
	Title string
	Nonce string // set by Handler.Serve from the request context
	Data  any
}

// ErrorData is the payload of the error and not-found views.
type ErrorData struct {
	Status  int
	Message string
}

// HomePage is the landing document.
func HomePage() Page {
	return Page{Route: "/", View: ViewHome, Title: "monograph"}
}

// MonographPage renders a loaded monograph.
func MonographPage(m *monograph.Monograph) Page {
	return Page{Route: "/{id}", View: ViewMonograph, Title: m.Title, Data: m}
}

// NotFoundPage is the 404 document.
func NotFoundPage(route string) Page {
	return Page{
		Route: route,
		View:  ViewNotFound,
		Title: "Not found",
		Data:  ErrorData{Status: http.StatusNotFound, Message: "This monograph does not exist."},
	}
}

// ErrorPage is the generic failure document for status.
func ErrorPage(route string, status int) Page {
	return Page{
		Route: route,
		View:  ViewError,
		Title: http.StatusText(status),
		Data:  ErrorData{Status: status, Message: "Something went wrong while preparing this page."},
	}
}
