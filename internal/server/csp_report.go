// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ManuGH/monograph/internal/control/http/problem"
	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/metrics"
)

const maxReportBytes = 64 << 10

// violation is the subset of a CSP violation report that is logged.
type violation struct {
	Directive   string
	BlockedURI  string
	DocumentURI string
	Disposition string
	Sample      string
}

// legacyReport is the report-uri body (application/csp-report).
type legacyReport struct {
	Report struct {
		DocumentURI        string `json:"document-uri"`
		BlockedURI         string `json:"blocked-uri"`
		EffectiveDirective string `json:"effective-directive"`
		ViolatedDirective  string `json:"violated-directive"`
		Disposition        string `json:"disposition"`
		ScriptSample       string `json:"script-sample"`
	} `json:"csp-report"`
}

// reportingAPIReport is one entry of a Reporting API batch (application/reports+json).
type reportingAPIReport struct {
	Type string `json:"type"`
	Body struct {
		DocumentURL        string `json:"documentURL"`
		BlockedURL         string `json:"blockedURL"`
		EffectiveDirective string `json:"effectiveDirective"`
		Disposition        string `json:"disposition"`
		Sample             string `json:"sample"`
	} `json:"body"`
}

func (s *Server) handleCSPReport(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "csp")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			problem.Write(w, r, http.StatusRequestEntityTooLarge, "csp/report_too_large", "Payload Too Large", "REPORT_TOO_LARGE", "", nil)
			return
		}
		problem.Write(w, r, http.StatusBadRequest, "csp/report_unreadable", "Bad Request", "INVALID_REPORT", err.Error(), nil)
		return
	}

	violations, err := parseReports(r.Header.Get("Content-Type"), body)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "csp/report_invalid", "Bad Request", "INVALID_REPORT", err.Error(), nil)
		return
	}

	for _, v := range violations {
		metrics.IncCSPReport(v.Directive)
		logger.Warn().
			Str(log.FieldEvent, "csp.report").
			Str(log.FieldDirective, v.Directive).
			Str(log.FieldBlockedURI, truncate(v.BlockedURI, 512)).
			Str(log.FieldDocumentURI, truncate(v.DocumentURI, 512)).
			Str("disposition", v.Disposition).
			Str("sample", truncate(v.Sample, 80)).
			Msg("content security policy violation")
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseReports accepts both report-uri and Reporting API bodies.
func parseReports(contentType string, body []byte) ([]violation, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	if mediaType == "application/reports+json" {
		var batch []reportingAPIReport
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, errors.New("malformed reports+json body")
		}
		out := make([]violation, 0, len(batch))
		for _, rep := range batch {
			if rep.Type != "csp-violation" {
				continue
			}
			out = append(out, violation{
				Directive:   rep.Body.EffectiveDirective,
				BlockedURI:  rep.Body.BlockedURL,
				DocumentURI: rep.Body.DocumentURL,
				Disposition: rep.Body.Disposition,
				Sample:      rep.Body.Sample,
			})
		}
		return out, nil
	}

	var legacy legacyReport
	if err := json.Unmarshal(body, &legacy); err != nil {
		return nil, errors.New("malformed csp-report body")
	}
	directive := legacy.Report.EffectiveDirective
	if directive == "" {
		// violated-directive carries the full directive text in older browsers.
		directive, _, _ = strings.Cut(legacy.Report.ViolatedDirective, " ")
	}
	if directive == "" && legacy.Report.BlockedURI == "" {
		return nil, errors.New("report has no csp-report member")
	}
	return []violation{{
		Directive:   directive,
		BlockedURI:  legacy.Report.BlockedURI,
		DocumentURI: legacy.Report.DocumentURI,
		Disposition: legacy.Report.Disposition,
		Sample:      legacy.Report.ScriptSample,
	}}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
