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

package version

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultActiveCeiling is the advisory limit on simultaneously active
// versions. Exceeding it produces an Advisory, never a rejection.
const DefaultActiveCeiling = 3

// Advisory is a non-fatal warning produced by an administrative operation.
// Empty means no advisory.
type Advisory string

// snapshot is the immutable read-path view of the registry. Request-path
// queries load it atomically; administrative writes build a fresh one under
// the write mutex and swap it in.
type snapshot struct {
	byToken map[string]Descriptor
	order   []string // registration order
	def     string   // default version token, "" if unset
}

// Registry is the set of versions a service currently supports, each tagged
// with a lifecycle state. It is safe for concurrent use: reads are lock-free
// snapshot loads, writes serialize on a coarse mutex (administrative
// operations are rare and off the request-latency path).
type Registry struct {
	mu            sync.Mutex // serializes writes
	snap          atomic.Pointer[snapshot]
	activeCeiling int
	now           func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefault sets the default version token applied when a request carries
// no version signal. The token is normalized; malformed input is ignored
// here and caught by the resolver's configuration validation, which also
// requires the default to be registered by the time a resolver is built.
func WithDefault(token string) RegistryOption {
	return func(r *Registry) {
		if tok, err := Normalize(token); err == nil {
			snap := r.snap.Load()
			next := snap.clone()
			next.def = tok
			r.snap.Store(next)
		}
	}
}

// WithActiveCeiling sets the advisory limit on active versions.
// Zero disables the advisory.
func WithActiveCeiling(n int) RegistryOption {
	return func(r *Registry) {
		r.activeCeiling = n
	}
}

// WithClock sets a custom clock function for testing.
func WithClock(nowFn func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = nowFn
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		activeCeiling: DefaultActiveCeiling,
		now:           time.Now,
	}
	r.snap.Store(&snapshot{byToken: map[string]Descriptor{}})

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		byToken: make(map[string]Descriptor, len(s.byToken)+1),
		order:   slices.Clone(s.order),
		def:     s.def,
	}
	for k, v := range s.byToken {
		next.byToken[k] = v
	}

	return next
}

// Register adds a new version descriptor. The token is normalized before
// insertion. Registration never overwrites: re-registering an existing token
// (including a sunset one) fails with ErrRegistryConflict.
//
// The returned Advisory is non-empty when the active version count exceeds
// the configured ceiling; it is a warning signal for the operator, not an
// error.
func (r *Registry) Register(d Descriptor) (Advisory, error) {
	tok, err := Normalize(d.Token)
	if err != nil {
		return "", err
	}
	if d.State == "" {
		d.State = StateActive
	}
	if !d.State.Valid() {
		return "", fmt.Errorf("%w: register %q: invalid state %q", ErrRegistryConflict, tok, d.State)
	}
	if d.State == StateSunset && d.SunsetAt.IsZero() {
		return "", fmt.Errorf("%w: register %q as sunset", ErrSunsetTimeRequired, tok)
	}
	d.Token = tok

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	if _, exists := snap.byToken[tok]; exists {
		return "", fmt.Errorf("%w: version %q already registered", ErrRegistryConflict, tok)
	}

	next := snap.clone()
	next.byToken[tok] = d
	next.order = append(next.order, tok)
	r.snap.Store(next)

	// The soft invariant on deprecation holds on every entry point, not
	// just Deprecate: a deprecated version without a successor link leaves
	// consumers with no advertised migration path.
	if d.State == StateDeprecated && d.SuccessorLink == "" {
		return Advisory(fmt.Sprintf("version %q deprecated without a successor link; consumers have no advertised migration path", tok)), nil
	}

	return r.ceilingAdvisory(next), nil
}

// Deprecate transitions a version from active to deprecated and records the
// migration link. Fails with ErrRegistryConflict if the token is unknown or
// already sunset.
//
// The returned Advisory is non-empty when successorLink is empty: a
// deprecation without a migration path is legal but worth flagging.
func (r *Registry) Deprecate(token, successorLink string) (Advisory, error) {
	tok, err := Normalize(token)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	d, exists := snap.byToken[tok]
	if !exists {
		return "", fmt.Errorf("%w: deprecate %q: unknown version", ErrRegistryConflict, tok)
	}
	if d.State == StateSunset {
		return "", fmt.Errorf("%w: deprecate %q: version is already sunset", ErrRegistryConflict, tok)
	}

	d.State = StateDeprecated
	if d.DeprecatedSince.IsZero() {
		d.DeprecatedSince = r.now()
	}
	if successorLink != "" {
		d.SuccessorLink = successorLink
	}

	next := snap.clone()
	next.byToken[tok] = d
	r.snap.Store(next)

	if d.SuccessorLink == "" {
		return Advisory(fmt.Sprintf("version %q deprecated without a successor link; consumers have no advertised migration path", tok)), nil
	}

	return "", nil
}

// Sunset transitions a version to sunset with the given removal timestamp.
// Fails with ErrRegistryConflict if the token is unknown or already sunset,
// and with ErrSunsetTimeRequired on a zero timestamp.
func (r *Registry) Sunset(token string, at time.Time) error {
	tok, err := Normalize(token)
	if err != nil {
		return err
	}
	if at.IsZero() {
		return fmt.Errorf("%w: sunset %q", ErrSunsetTimeRequired, tok)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	d, exists := snap.byToken[tok]
	if !exists {
		return fmt.Errorf("%w: sunset %q: unknown version", ErrRegistryConflict, tok)
	}
	if d.State == StateSunset {
		return fmt.Errorf("%w: sunset %q: version is already sunset", ErrRegistryConflict, tok)
	}

	d.State = StateSunset
	d.SunsetAt = at

	next := snap.clone()
	next.byToken[tok] = d
	r.snap.Store(next)

	return nil
}

// Remove deletes a descriptor entirely. This is the forced-cutover action:
// once removed, the version resolves as unknown. Removing the default
// version fails with ErrDefaultInUse.
func (r *Registry) Remove(token string) error {
	tok, err := Normalize(token)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	if _, exists := snap.byToken[tok]; !exists {
		return fmt.Errorf("%w: remove %q: unknown version", ErrRegistryConflict, tok)
	}
	if snap.def == tok {
		return fmt.Errorf("%w: %q", ErrDefaultInUse, tok)
	}

	next := snap.clone()
	delete(next.byToken, tok)
	next.order = slices.DeleteFunc(next.order, func(t string) bool { return t == tok })
	r.snap.Store(next)

	return nil
}

// SetDefault changes the default version. The token must be registered.
func (r *Registry) SetDefault(token string) error {
	tok, err := Normalize(token)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snap.Load()
	if _, exists := snap.byToken[tok]; !exists {
		return fmt.Errorf("%w: set default %q: unknown version", ErrRegistryConflict, tok)
	}

	next := snap.clone()
	next.def = tok
	r.snap.Store(next)

	return nil
}

// Get returns the descriptor for a token. The token is normalized before
// lookup; a malformed token is simply not found.
func (r *Registry) Get(token string) (Descriptor, bool) {
	tok, err := Normalize(token)
	if err != nil {
		return Descriptor{}, false
	}

	snap := r.snap.Load()
	d, ok := snap.byToken[tok]

	return d, ok
}

// Has reports whether a normalized token is registered.
func (r *Registry) Has(token string) bool {
	_, ok := r.Get(token)
	return ok
}

// ListActive returns the descriptors in StateActive, in registration order.
func (r *Registry) ListActive() []Descriptor {
	snap := r.snap.Load()

	out := make([]Descriptor, 0, len(snap.order))
	for _, tok := range snap.order {
		if d := snap.byToken[tok]; d.State == StateActive {
			out = append(out, d)
		}
	}

	return out
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	snap := r.snap.Load()

	out := make([]Descriptor, 0, len(snap.order))
	for _, tok := range snap.order {
		out = append(out, snap.byToken[tok])
	}

	return out
}

// SupportedTokens returns the tokens of all non-sunset versions in
// registration order. This feeds the API-Supported-Versions response header.
func (r *Registry) SupportedTokens() []string {
	snap := r.snap.Load()

	out := make([]string, 0, len(snap.order))
	for _, tok := range snap.order {
		if d := snap.byToken[tok]; d.State != StateSunset {
			out = append(out, d.Token)
		}
	}

	return out
}

// DefaultVersion returns the configured default version token, or "" if none
// is set.
func (r *Registry) DefaultVersion() string {
	return r.snap.Load().def
}

// ceilingAdvisory is called with r.mu held.
func (r *Registry) ceilingAdvisory(snap *snapshot) Advisory {
	if r.activeCeiling <= 0 {
		return ""
	}

	active := 0
	for _, d := range snap.byToken {
		if d.State == StateActive {
			active++
		}
	}
	if active > r.activeCeiling {
		return Advisory(fmt.Sprintf("%d active versions exceeds the advisory ceiling of %d; consider deprecating older versions", active, r.activeCeiling))
	}

	return ""
}
