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
	"net/http"
	"strings"
	"time"
)

// RouteFunc derives the route identifier used for dispatch from a request
// and its version-stripped path.
type RouteFunc func(r *http.Request, strippedPath string) string

// FirstSegmentRoute is the default RouteFunc: the first path segment after
// version stripping, or "/" for the root. "/v2/users/123" dispatches as
// route "users".
func FirstSegmentRoute(_ *http.Request, strippedPath string) string {
	trimmed := strings.TrimPrefix(strippedPath, "/")
	if trimmed == "" {
		return "/"
	}
	if end := strings.IndexByte(trimmed, '/'); end >= 0 {
		return trimmed[:end]
	}

	return trimmed
}

// Config holds the pipeline configuration.
type Config struct {
	route             RouteFunc
	sendVersionHeader bool
	sendWarning299    bool
	enforceSunset     bool
	observer          *Observer
	events            EventHandler
	metrics           *Metrics
	now               func() time.Time
}

// Option configures the pipeline.
type Option func(*Config)

// WithRouteFunc overrides how route identifiers are derived from requests.
//
// Example:
//
//	verso.WithRouteFunc(func(r *http.Request, stripped string) string {
//	    return r.Method + " " + stripped
//	})
func WithRouteFunc(fn RouteFunc) Option {
	return func(cfg *Config) {
		if fn != nil {
			cfg.route = fn
		}
	}
}

// WithVersionHeader echoes the resolved version as X-API-Version on every
// versioned response.
func WithVersionHeader() Option {
	return func(cfg *Config) {
		cfg.sendVersionHeader = true
	}
}

// WithWarning299 adds an RFC 7234 Warning: 299 header to responses served by
// deprecated versions.
func WithWarning299() Option {
	return func(cfg *Config) {
		cfg.sendWarning299 = true
	}
}

// WithSunsetEnforcement refuses versions past their sunset date with
// 410 Gone. Off by default: sunset marks intent and a timestamp, not
// automatic refusal.
func WithSunsetEnforcement() Option {
	return func(cfg *Config) {
		cfg.enforceSunset = true
	}
}

// WithObserver configures per-request resolution callbacks.
//
// Example:
//
//	verso.WithObserver(
//	    verso.OnResolved(func(token string, source resolve.Source) {
//	        log.Debug("resolved", "version", token, "source", source)
//	    }),
//	    verso.OnDeprecatedUse(func(token, route string) {
//	        log.Warn("deprecated version in use", "version", token, "route", route)
//	    }),
//	)
func WithObserver(opts ...ObserverOption) Option {
	return func(cfg *Config) {
		obs := &Observer{}
		for _, opt := range opts {
			opt(obs)
		}
		cfg.observer = obs
	}
}

// WithEventHandler sets the sink for internal operational events.
// See DefaultEventHandler for a slog adapter.
func WithEventHandler(fn EventHandler) Option {
	return func(cfg *Config) {
		cfg.events = fn
	}
}

// WithMetrics attaches a Metrics recorder to the pipeline.
func WithMetrics(m *Metrics) Option {
	return func(cfg *Config) {
		cfg.metrics = m
	}
}

// WithClock sets a custom clock function for testing sunset behavior.
func WithClock(nowFn func() time.Time) Option {
	return func(cfg *Config) {
		if nowFn != nil {
			cfg.now = nowFn
		}
	}
}
