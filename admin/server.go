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

package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	verso "github.com/verso-http/verso"
	"github.com/verso-http/verso/dispatch"
	"github.com/verso-http/verso/version"
)

// Handler serves the administrative surface over a registry and dispatch
// table. Governance tooling drives version lifecycle through it without
// code changes: register, deprecate, sunset, remove, and inspect.
//
// Handler capabilities themselves are code and register programmatically on
// the dispatch table; the admin surface only reports which (version, route)
// pairs exist.
type Handler struct {
	registry *version.Registry
	table    *dispatch.Table
	events   verso.EventHandler
}

// Option configures the admin handler.
type Option func(*Handler)

// WithEventHandler sets the sink for administrative events (registrations,
// transitions, advisories).
func WithEventHandler(fn verso.EventHandler) Option {
	return func(h *Handler) {
		if fn != nil {
			h.events = fn
		}
	}
}

// NewHandler builds the administrative http.Handler.
//
// Routes:
//
//	GET    /versions                    list all descriptors and the default
//	POST   /versions                    register a version
//	POST   /versions/{token}/deprecate  transition to deprecated
//	POST   /versions/{token}/sunset     transition to sunset
//	DELETE /versions/{token}            remove (forced cutover)
//	PUT    /default                     change the default version
//	GET    /versions/{token}/routes     list routes with handlers
func NewHandler(reg *version.Registry, table *dispatch.Table, opts ...Option) http.Handler {
	h := &Handler{
		registry: reg,
		table:    table,
		events:   func(verso.Event) {},
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Get("/versions", h.listVersions)
	r.Post("/versions", h.registerVersion)
	r.Post("/versions/{token}/deprecate", h.deprecateVersion)
	r.Post("/versions/{token}/sunset", h.sunsetVersion)
	r.Delete("/versions/{token}", h.removeVersion)
	r.Put("/default", h.setDefault)
	r.Get("/versions/{token}/routes", h.listRoutes)

	return r
}

// descriptorView is the JSON shape of one registry entry.
type descriptorView struct {
	Token           string     `json:"token"`
	State           string     `json:"state"`
	DeprecatedSince *time.Time `json:"deprecated_since,omitempty"`
	SunsetAt        *time.Time `json:"sunset_at,omitempty"`
	SuccessorLink   string     `json:"successor_link,omitempty"`
	Successor       string     `json:"successor,omitempty"`
}

func viewOf(d version.Descriptor) descriptorView {
	v := descriptorView{
		Token:         d.Token,
		State:         string(d.State),
		SuccessorLink: d.SuccessorLink,
		Successor:     d.Successor,
	}
	if !d.DeprecatedSince.IsZero() {
		t := d.DeprecatedSince
		v.DeprecatedSince = &t
	}
	if !d.SunsetAt.IsZero() {
		t := d.SunsetAt
		v.SunsetAt = &t
	}

	return v
}

func (h *Handler) listVersions(w http.ResponseWriter, _ *http.Request) {
	descriptors := h.registry.List()
	views := make([]descriptorView, len(descriptors))
	for i, d := range descriptors {
		views[i] = viewOf(d)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"default":  h.registry.DefaultVersion(),
		"versions": views,
	})
}

type registerRequest struct {
	Token         string     `json:"token"`
	State         string     `json:"state,omitempty"`
	SunsetAt      *time.Time `json:"sunset_at,omitempty"`
	SuccessorLink string     `json:"successor_link,omitempty"`
	Successor     string     `json:"successor,omitempty"`
}

func (h *Handler) registerVersion(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := version.Descriptor{
		Token:         req.Token,
		State:         version.State(req.State),
		SuccessorLink: req.SuccessorLink,
		Successor:     req.Successor,
	}
	if req.SunsetAt != nil {
		d.SunsetAt = *req.SunsetAt
	}

	advisory, err := h.registry.Register(d)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.events(verso.Event{Type: verso.EventInfo, Message: "version registered",
		Args: []any{"version", req.Token}})
	h.advise(advisory)

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":    version.MustNormalize(req.Token),
		"advisory": string(advisory),
	})
}

type deprecateRequest struct {
	SuccessorLink string `json:"successor_link,omitempty"`
}

func (h *Handler) deprecateVersion(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req deprecateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	advisory, err := h.registry.Deprecate(token, req.SuccessorLink)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.events(verso.Event{Type: verso.EventInfo, Message: "version deprecated",
		Args: []any{"version", token}})
	h.advise(advisory)

	writeJSON(w, http.StatusOK, map[string]any{"advisory": string(advisory)})
}

type sunsetRequest struct {
	At time.Time `json:"at"`
}

func (h *Handler) sunsetVersion(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req sunsetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.registry.Sunset(token, req.At); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.events(verso.Event{Type: verso.EventInfo, Message: "version sunset",
		Args: []any{"version", token, "at", req.At}})

	writeJSON(w, http.StatusOK, map[string]any{"sunset_at": req.At})
}

func (h *Handler) removeVersion(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.registry.Remove(token); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.events(verso.Event{Type: verso.EventWarning, Message: "version removed",
		Args: []any{"version", token}})

	w.WriteHeader(http.StatusNoContent)
}

type defaultRequest struct {
	Token string `json:"token"`
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	var req defaultRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.registry.SetDefault(req.Token); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"default": h.registry.DefaultVersion()})
}

func (h *Handler) listRoutes(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if !h.registry.Has(token) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown version"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"version": version.MustNormalize(token),
		"routes":  h.table.Routes(token),
	})
}

// writeRegistryError maps registry failures to statuses: conflicts and
// transition violations are 409, malformed tokens 400.
func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, version.ErrMalformedToken):
		status = http.StatusBadRequest
	case errors.Is(err, version.ErrSunsetTimeRequired):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func (h *Handler) advise(a version.Advisory) {
	if a != "" {
		h.events(verso.Event{Type: verso.EventWarning, Message: string(a)})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, into any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true // all fields optional or validated downstream
	}
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body: " + err.Error()})
		return false
	}

	return true
}
