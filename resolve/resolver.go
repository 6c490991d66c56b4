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

package resolve

import (
	"fmt"
	"slices"

	"github.com/verso-http/verso/version"
)

// Source identifies what decided a resolution: a channel name, or "default"
// when no channel carried a signal.
type Source string

// SourceDefault marks an outcome produced by the default-version policy
// rather than any request channel.
const SourceDefault Source = "default"

// Outcome is one request's resolved version. Computed once per request,
// consumed immediately by dispatch; never cached.
type Outcome struct {
	// Token is the resolved, normalized version token.
	Token string

	// Source is the channel that won, or SourceDefault.
	Source Source

	// Losers records the conflicting extractions that lost the precedence
	// tie-break. Empty when channels agreed or only one carried a token.
	// Conflicts are not errors; consumers layer version hints
	// inconsistently, and a deterministic tie-break beats rejection. The
	// losers are kept for observability.
	Losers []Extraction
}

// Defaulted reports whether the outcome came from the default policy.
func (o Outcome) Defaulted() bool {
	return o.Source == SourceDefault
}

// Resolver reconciles the per-channel extractions of one request into
// exactly one resolved version, validated against the registry.
//
// Resolution order: a malformed explicit token fails fast; total absence
// falls to the default policy (or fails when mandatory); conflicting tokens
// resolve by channel precedence; a token missing from the registry fails
// last. Absence of signal is benign, contradictory or invalid signal is an
// error.
type Resolver struct {
	cfg *Config
	reg *version.Registry
}

// New creates a Resolver bound to a registry.
//
// Example:
//
//	r, err := resolve.New(reg,
//	    resolve.WithPathChannel(0),
//	    resolve.WithHeaderChannel("API-Version"),
//	)
func New(reg *version.Registry, opts ...Option) (*Resolver, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	if !cfg.mandatory {
		def := reg.DefaultVersion()
		if def == "" {
			return nil, fmt.Errorf("%w: set one with version.WithDefault or resolve.WithMandatory", ErrNoDefaultVersion)
		}
		// WithDefault accepts any well-formed token; the registered check
		// happens here so a typo'd default fails construction instead of
		// silently serving every no-signal request an unroutable version.
		if !reg.Has(def) {
			return nil, fmt.Errorf("%w: %q", ErrDefaultNotRegistered, def)
		}
	}

	return &Resolver{cfg: cfg, reg: reg}, nil
}

// Config returns the resolver's configuration.
func (r *Resolver) Config() *Config {
	return r.cfg
}

// Registry returns the registry the resolver validates tokens against.
func (r *Resolver) Registry() *version.Registry {
	return r.reg
}

// Extract runs every configured channel against the request and returns the
// per-channel results, in configuration order. Absence is a first-class
// outcome; no channel errors.
func (r *Resolver) Extract(req Request) []Extraction {
	out := make([]Extraction, len(r.cfg.extractors))
	for i, x := range r.cfg.extractors {
		out[i] = x.Extract(req)
	}

	return out
}

// Resolve reconciles one request into an Outcome or a *Error. Resolving the
// same request against an unchanged registry always yields the same result.
func (r *Resolver) Resolve(req Request) (Outcome, error) {
	return r.reconcile(r.Extract(req))
}

// reconcile applies the resolution algorithm to a set of extractions.
func (r *Resolver) reconcile(extractions []Extraction) (Outcome, error) {
	// Malformed fails fast. A consumer who tried to specify a version and
	// got it wrong must not be silently routed by a lower-precedence
	// channel or the default.
	var malformed []Extraction
	var found []Extraction
	for _, ex := range extractions {
		switch ex.State {
		case Malformed:
			malformed = append(malformed, ex)
		case Found:
			found = append(found, ex)
		case Absent:
		}
	}
	if len(malformed) > 0 {
		channels := make([]Channel, len(malformed))
		for i, ex := range malformed {
			channels[i] = ex.Channel
		}

		return Outcome{}, &Error{Kind: ErrMalformed, Channels: channels, Raw: malformed[0].Raw}
	}

	// No signal anywhere: benign. Apply the default policy.
	if len(found) == 0 {
		if r.cfg.mandatory {
			return Outcome{}, &Error{Kind: ErrMissingVersion}
		}

		// New verified the default is registered, and the registry refuses
		// to remove or reassign it to an unregistered token, so a defaulted
		// token never resolves unknown.
		return Outcome{Token: r.reg.DefaultVersion(), Source: SourceDefault}, nil
	}

	// Highest-precedence channel wins. When all present channels agree the
	// tie-break is a no-op and there are no losers to record.
	slices.SortStableFunc(found, func(a, b Extraction) int {
		return r.cfg.rank(a.Channel) - r.cfg.rank(b.Channel)
	})
	winner := found[0]

	var losers []Extraction
	for _, ex := range found[1:] {
		if ex.Token != winner.Token {
			losers = append(losers, ex)
		}
	}

	// The chosen token must exist. Unknown fails last so that explicit
	// agreement or precedence has already picked a single candidate.
	if !r.reg.Has(winner.Token) {
		return Outcome{}, &Error{
			Kind:     ErrUnknownVersion,
			Channels: []Channel{winner.Channel},
			Token:    winner.Token,
		}
	}

	return Outcome{Token: winner.Token, Source: Source(winner.Channel), Losers: losers}, nil
}

// StripVersionPath removes the version segment from a path when the path
// channel is configured and the segment is present. Handlers downstream see
// version-agnostic paths.
func (r *Resolver) StripVersionPath(path string) string {
	if r.cfg.pathX == nil {
		return path
	}

	return r.cfg.pathX.StripSegment(path)
}
