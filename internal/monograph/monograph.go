// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package monograph loads published monographs from the upstream content API.
package monograph

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when the monograph does not exist or the ID is malformed.
	ErrNotFound = errors.New("monograph: not found")
	// ErrUpstream is the sentinel wrapped by every *UpstreamError.
	ErrUpstream = errors.New("monograph: upstream failure")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidID reports whether id is a well-formed monograph identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Content is the rendered body of a monograph.
type Content struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Monograph is a published note as returned by the content API.
type Monograph struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       Content   `json:"content"`
	DatePublished time.Time `json:"datePublished"`
}

// UpstreamError describes a failed upstream call.
type UpstreamError struct {
	Operation string
	Status    int
	Err       error // transport or decode error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("monograph: %s: %v", e.Operation, ErrUpstream)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}
