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

import "errors"

// Static errors for token handling and registry administration.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// ErrMalformedToken indicates a raw token that failed normalization.
	ErrMalformedToken = errors.New("malformed version token")

	// ErrRegistryConflict indicates an administrative operation that would
	// violate the registry's append/transition-only discipline: registering a
	// duplicate token, or transitioning an unknown or already-terminal one.
	ErrRegistryConflict = errors.New("registry conflict")

	// ErrSunsetTimeRequired indicates a sunset transition without a timestamp.
	ErrSunsetTimeRequired = errors.New("sunset time is required")

	// ErrDefaultInUse indicates an attempt to remove the registry's default version.
	ErrDefaultInUse = errors.New("cannot remove the default version")
)
