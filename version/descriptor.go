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

import "time"

// State is the administrative lifecycle state of a version. Transitions are
// strictly forward: Active → Deprecated → Sunset. No transition goes back.
type State string

const (
	// StateActive marks a fully supported version.
	StateActive State = "active"

	// StateDeprecated marks a version consumers should migrate away from.
	// It is still served; responses carry deprecation metadata.
	StateDeprecated State = "deprecated"

	// StateSunset marks a version past (or approaching) its removal date.
	// Sunset records intent and a timestamp; it does not refuse traffic by
	// itself. Forced cutover is a separate administrative action.
	StateSunset State = "sunset"
)

// Valid reports whether s is one of the known lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateActive, StateDeprecated, StateSunset:
		return true
	default:
		return false
	}
}

// Descriptor is one registry entry: a normalized token plus its lifecycle
// metadata. Descriptors are immutable values; the registry replaces entries
// wholesale on transitions.
type Descriptor struct {
	// Token is the normalized version token (see Normalize).
	Token string

	// State is the current lifecycle state.
	State State

	// DeprecatedSince records when the version entered StateDeprecated.
	DeprecatedSince time.Time

	// SunsetAt records when the version is (to be) removed. Always set when
	// State is StateSunset.
	SunsetAt time.Time

	// SuccessorLink is the migration documentation URI advertised in
	// Link response headers with rel="successor-version".
	SuccessorLink string

	// Successor names the token consumers should migrate to. Informational.
	Successor string
}
