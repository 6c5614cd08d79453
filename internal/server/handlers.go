// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/monograph"
	"github.com/ManuGH/monograph/internal/render"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.documents.Serve(w, r, http.StatusOK, render.HomePage())
}

func (s *Server) handleMonograph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := s.store.Get(r.Context(), id)
	switch {
	case err == nil:
		s.documents.Serve(w, r, http.StatusOK, render.MonographPage(m))
	case errors.Is(err, monograph.ErrNotFound):
		s.documents.Serve(w, r, http.StatusNotFound, render.NotFoundPage("/{id}"))
	default:
		logger := log.WithComponentFromContext(r.Context(), "loader")
		logger.Error().Err(err).
			Str(log.FieldEvent, "monograph.load_failed").
			Str(log.FieldMonograph, id).
			Msg("failed to load monograph")
		s.documents.Serve(w, r, http.StatusBadGateway, render.ErrorPage("/{id}", http.StatusBadGateway))
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.documents.Serve(w, r, http.StatusNotFound, render.NotFoundPage("unmatched"))
}
