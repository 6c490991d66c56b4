// Copyright 2025 The Verso Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/verso-http/verso/version"
)

// Static errors for handler registration.
var (
	ErrNilHandler = errors.New("handler cannot be nil")
	ErrEmptyRoute = errors.New("route cannot be empty")
)

// tables maps version token → route → handler. Immutable once stored; the
// Table swaps whole snapshots on registration, so request-path lookups are a
// single atomic load with no lock.
type tables map[string]map[string]http.Handler

// Table indexes externally supplied handler capabilities by (version,
// route). It never inspects or wraps the business logic it holds; it only
// stores and returns it.
//
// Safe for concurrent use. Lookups are lock-free; registration takes a
// coarse mutex, which is fine because handler registration is an
// operational action, not a request-path one.
type Table struct {
	mu   sync.Mutex // serializes registration
	snap atomic.Pointer[tables]
}

// NewTable creates an empty dispatch table.
func NewTable() *Table {
	t := &Table{}
	empty := tables{}
	t.snap.Store(&empty)

	return t
}

// Register binds a handler to a (version, route) pair. The version token is
// normalized. Re-registering a pair replaces the handler in place, so
// operators can swap implementations without a restart.
func (t *Table) Register(versionToken, route string, h http.Handler) error {
	tok, err := version.Normalize(versionToken)
	if err != nil {
		return err
	}
	if route == "" {
		return ErrEmptyRoute
	}
	if h == nil {
		return fmt.Errorf("%w: version %q route %q", ErrNilHandler, tok, route)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur := *t.snap.Load()
	next := make(tables, len(cur)+1)
	for v, routes := range cur {
		copied := make(map[string]http.Handler, len(routes)+1)
		for r, handler := range routes {
			copied[r] = handler
		}
		next[v] = copied
	}
	if next[tok] == nil {
		next[tok] = map[string]http.Handler{}
	}
	next[tok][route] = h

	t.snap.Store(&next)

	return nil
}

// RegisterFunc is Register for plain functions.
func (t *Table) RegisterFunc(versionToken, route string, h http.HandlerFunc) error {
	return t.Register(versionToken, route, h)
}

// Resolve returns the handler registered for a (version, route) pair. A
// false return means the version has no handler for this route, which is a
// routing failure, not a version failure: the version may well be known to
// the registry and the route served by other versions.
func (t *Table) Resolve(versionToken, route string) (http.Handler, bool) {
	tok, err := version.Normalize(versionToken)
	if err != nil {
		return nil, false
	}

	routes, ok := (*t.snap.Load())[tok]
	if !ok {
		return nil, false
	}
	h, ok := routes[route]

	return h, ok
}

// Routes returns the sorted route identifiers registered for a version.
func (t *Table) Routes(versionToken string) []string {
	tok, err := version.Normalize(versionToken)
	if err != nil {
		return nil
	}

	routes := (*t.snap.Load())[tok]
	out := make([]string, 0, len(routes))
	for r := range routes {
		out = append(out, r)
	}
	slices.Sort(out)

	return out
}

// Versions returns the sorted version tokens that have at least one handler.
func (t *Table) Versions() []string {
	snap := *t.snap.Load()
	out := make([]string, 0, len(snap))
	for v := range snap {
		out = append(out, v)
	}
	slices.Sort(out)

	return out
}
