// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package http

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed all:assets
var assetsFS embed.FS

// AssetsConfig configures the static asset handler.
type AssetsConfig struct {
	// Prefix is stripped from the request path before lookup (e.g. "/assets").
	Prefix string
	// Immutable marks every asset as cacheable forever. Only enable when the
	// asset names are content-hashed.
	Immutable bool
}

// AssetsHandler serves the embedded static assets referenced by rendered
// documents (client script, manifest, icons).
func AssetsHandler(cfg AssetsConfig) http.Handler {
	subFS, err := fs.Sub(assetsFS, "assets")
	var fileServer http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "assets not available", http.StatusInternalServerError)
	})
	if err == nil {
		fileServer = http.FileServer(http.FS(subFS))
	}
	if cfg.Prefix != "" {
		fileServer = http.StripPrefix(cfg.Prefix, fileServer)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Directory listings are never part of the asset surface.
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		if cfg.Immutable {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		if path.Ext(r.URL.Path) == ".webmanifest" {
			w.Header().Set(HeaderContentType, "application/manifest+json")
		}

		fileServer.ServeHTTP(w, r)
	})
}
