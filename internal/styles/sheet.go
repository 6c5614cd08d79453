// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package styles collects the component style rules of the document and
// extracts the subset a rendered body actually uses.
package styles

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DefaultKey matches the class prefix emitted for component styles.
const DefaultKey = "css"

// Sheet is a registry of named component rules. Each rule gets a stable class
// name derived from its declarations, so identical declarations share a class.
// A Sheet is safe for concurrent use; rules are normally defined at startup.
type Sheet struct {
	key string

	mu     sync.RWMutex
	byName map[string]string // rule name -> id
	rules  map[string]string // id -> declarations
	global []string
}

// NewSheet creates an empty sheet whose classes are prefixed with key.
func NewSheet(key string) *Sheet {
	if key == "" {
		key = DefaultKey
	}
	return &Sheet{
		key:    key,
		byName: make(map[string]string),
		rules:  make(map[string]string),
	}
}

// Key returns the class prefix of the sheet.
func (s *Sheet) Key() string { return s.key }

// Define registers declarations under name and returns the generated class.
// Redefining a name replaces its rule.
func (s *Sheet) Define(name, declarations string) string {
	declarations = strings.TrimSpace(declarations)
	id := ruleID(declarations)

	s.mu.Lock()
	if old, ok := s.byName[name]; ok && old != id {
		delete(s.byName, name)
		if !s.referenced(old) {
			delete(s.rules, old)
		}
	}
	s.byName[name] = id
	s.rules[id] = declarations
	s.mu.Unlock()

	return s.className(id)
}

// Global registers a rule that is emitted for every document regardless of
// which classes the body uses (resets, element selectors, fonts).
func (s *Sheet) Global(css string) {
	s.mu.Lock()
	s.global = append(s.global, strings.TrimSpace(css))
	s.mu.Unlock()
}

// Class returns the class generated for name.
func (s *Sheet) Class(name string) (string, error) {
	s.mu.RLock()
	id, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("style %q is not defined", name)
	}
	return s.className(id), nil
}

// Len returns the number of distinct component rules.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// referenced reports whether any name still maps to id. Callers hold mu.
func (s *Sheet) referenced(id string) bool {
	for _, other := range s.byName {
		if other == id {
			return true
		}
	}
	return false
}

func (s *Sheet) className(id string) string {
	return s.key + "-" + id
}

// rule renders the CSS for id. Callers hold at least a read lock.
func (s *Sheet) rule(id string) (string, bool) {
	decl, ok := s.rules[id]
	if !ok {
		return "", false
	}
	return "." + s.className(id) + "{" + decl + "}", true
}

func (s *Sheet) globalCSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.global, "")
}

// ids returns the registered ids in a stable order.
func (s *Sheet) ids() []string {
	out := make([]string, 0, len(s.rules))
	for id := range s.rules {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func ruleID(declarations string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(declarations))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}
