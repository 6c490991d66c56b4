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

package verso

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/verso-http/verso/dispatch"
	"github.com/verso-http/verso/resolve"
	"github.com/verso-http/verso/version"
)

// Pipeline processes one request linearly: extract, resolve, dispatch,
// annotate. Resolution and routing failures short-circuit to a structured
// error response; handler failures pass through untouched, since the
// pipeline does not interpret business-logic results.
//
// A Pipeline is an http.Handler and is safe for concurrent use: all
// per-request state is stack-local, and the registry and dispatch table it
// reads are snapshot-based.
type Pipeline struct {
	cfg      *Config
	resolver *resolve.Resolver
	registry *version.Registry
	table    *dispatch.Table
}

// New creates a Pipeline from a resolver and a dispatch table. The registry
// is taken from the resolver, so the pipeline always validates and annotates
// against the same version set the resolver resolves from.
//
// Example:
//
//	p, err := verso.New(resolver, table,
//	    verso.WithVersionHeader(),
//	    verso.WithSunsetEnforcement(),
//	)
//	http.ListenAndServe(":8080", p)
func New(resolver *resolve.Resolver, table *dispatch.Table, opts ...Option) (*Pipeline, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if table == nil {
		return nil, ErrNilTable
	}

	cfg := &Config{
		route:  FirstSegmentRoute,
		events: func(Event) {},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Pipeline{
		cfg:      cfg,
		resolver: resolver,
		registry: resolver.Registry(),
		table:    table,
	}, nil
}

// ServeHTTP runs the pipeline for one request.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if ctx.Err() != nil {
		return // cancelled before any work; emit nothing
	}

	// Every response advertises the supported versions, errors included,
	// so consumers can self-correct.
	supported := p.registry.SupportedTokens()
	w.Header().Set(HeaderSupportedVersions, supportedHeaderValue(supported))

	req := resolve.FromHTTP(r)
	outcome, err := p.resolver.Resolve(req)
	if err != nil {
		p.failResolution(w, err, supported)
		return
	}
	p.observeResolved(outcome)

	stripped := p.resolver.StripVersionPath(req.Path)
	route := p.cfg.route(r, stripped)

	handler, ok := p.table.Resolve(outcome.Token, route)
	if !ok {
		p.failRouting(w, outcome.Token, route, supported)
		return
	}

	// Re-check before writing any annotation headers: a request cancelled
	// between resolution and dispatch must not go out half-annotated.
	if ctx.Err() != nil {
		return
	}

	descriptor, ok := p.registry.Get(outcome.Token)
	if !ok {
		// The resolver validated the token moments ago; losing it here
		// means a concurrent administrative removal. Treat as unknown.
		p.failResolution(w, &resolve.Error{Kind: resolve.ErrUnknownVersion, Token: outcome.Token}, supported)
		return
	}

	if p.cfg.sendVersionHeader {
		w.Header().Set(HeaderVersion, descriptor.Token)
	}

	annotations := Annotate(descriptor)
	now := p.cfg.now()

	if p.cfg.enforceSunset && descriptor.State == version.StateSunset && now.After(descriptor.SunsetAt) {
		annotations.Apply(w.Header())
		p.cfg.events(Event{Type: EventWarning, Message: "request to sunset version refused",
			Args: []any{"version", descriptor.Token, "route", route}})
		writeError(w, http.StatusGone, CodeVersionSunset,
			fmt.Sprintf("version %s was sunset on %s", descriptor.Token, descriptor.SunsetAt.UTC().Format(http.TimeFormat)),
			supported)

		return
	}

	annotations.Apply(w.Header())
	if annotations.Deprecated {
		if p.cfg.sendWarning299 {
			w.Header().Set(HeaderWarning, annotations.warning299(descriptor.Token))
		}
		if p.cfg.observer != nil && p.cfg.observer.OnDeprecatedUse != nil {
			p.cfg.observer.OnDeprecatedUse(descriptor.Token, route)
		}
		if p.cfg.metrics != nil {
			p.cfg.metrics.recordDeprecatedUse(bgCtx, descriptor.Token)
		}
		p.cfg.events(Event{Type: EventInfo, Message: "deprecated version in use",
			Args: []any{"version", descriptor.Token, "route", route}})
	}

	r2 := r.WithContext(NewContext(ctx, Resolution{
		Token:  outcome.Token,
		Source: outcome.Source,
		Route:  route,
	}))
	if stripped != r2.URL.Path {
		u := *r2.URL
		u.Path = stripped
		r2.URL = &u
	}

	handler.ServeHTTP(w, r2)
}

// observeResolved fans a successful resolution out to the observer, metrics
// and events.
func (p *Pipeline) observeResolved(outcome resolve.Outcome) {
	if p.cfg.observer != nil {
		if p.cfg.observer.OnResolved != nil {
			p.cfg.observer.OnResolved(outcome.Token, outcome.Source)
		}
		if len(outcome.Losers) > 0 && p.cfg.observer.OnConflict != nil {
			p.cfg.observer.OnConflict(outcome.Token, outcome.Losers)
		}
	}
	if p.cfg.metrics != nil {
		p.cfg.metrics.recordResolution(bgCtx, outcome.Token, string(outcome.Source))
		if len(outcome.Losers) > 0 {
			p.cfg.metrics.recordConflict(bgCtx, outcome.Token)
		}
	}
	if len(outcome.Losers) > 0 {
		p.cfg.events(Event{Type: EventDebug, Message: "version channels conflicted",
			Args: []any{"winner", outcome.Token, "source", string(outcome.Source)}})
	}
}

// failResolution maps a resolver error to its client response.
func (p *Pipeline) failResolution(w http.ResponseWriter, err error, supported []string) {
	var resErr *resolve.Error
	if !errors.As(err, &resErr) {
		resErr = &resolve.Error{Kind: err}
	}

	switch {
	case errors.Is(resErr.Kind, resolve.ErrMalformed):
		if p.cfg.observer != nil && p.cfg.observer.OnMalformed != nil {
			p.cfg.observer.OnMalformed(resErr.Channels, resErr.Raw)
		}
		p.recordFailure(CodeMalformed, resErr)
		writeError(w, http.StatusBadRequest, CodeMalformed, resErr.Error(), nil)

	case errors.Is(resErr.Kind, resolve.ErrMissingVersion):
		if p.cfg.observer != nil && p.cfg.observer.OnMissing != nil {
			p.cfg.observer.OnMissing()
		}
		p.recordFailure(CodeMissingVersion, resErr)
		writeError(w, http.StatusBadRequest, CodeMissingVersion,
			"a version must be specified on this API", supported)

	case errors.Is(resErr.Kind, resolve.ErrUnknownVersion):
		if p.cfg.observer != nil && p.cfg.observer.OnUnknown != nil {
			p.cfg.observer.OnUnknown(resErr.Token)
		}
		p.recordFailure(CodeUnknownVersion, resErr)
		writeError(w, http.StatusBadRequest, CodeUnknownVersion, resErr.Error(), supported)

	default:
		p.recordFailure("internal", resErr)
		writeError(w, http.StatusInternalServerError, "resolution_failed", resErr.Error(), nil)
	}
}

// failRouting reports a version that exists but has no handler for the route.
func (p *Pipeline) failRouting(w http.ResponseWriter, token, route string, supported []string) {
	p.recordFailure(CodeRouteNotImplemented, nil)
	p.cfg.events(Event{Type: EventWarning, Message: "no handler for resolved version",
		Args: []any{"version", token, "route", route}})
	writeError(w, http.StatusNotFound, CodeRouteNotImplemented,
		fmt.Sprintf("route %q is not implemented for version %s", route, token), supported)
}

func (p *Pipeline) recordFailure(code string, err error) {
	if p.cfg.metrics != nil {
		p.cfg.metrics.recordFailure(bgCtx, code)
	}
	args := []any{"code", code}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	p.cfg.events(Event{Type: EventWarning, Message: "request rejected", Args: args})
}
