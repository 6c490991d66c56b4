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
	"regexp"
	"strings"
)

// tokenPattern accepts numeric versions ("2", "2.1"), optionally prefixed
// with "v" or "V", and calendar versions ("2024-06-01").
var tokenPattern = regexp.MustCompile(`^[vV]?(\d+(\.\d+)?|\d{4}-\d{2}-\d{2})$`)

// Normalize canonicalizes a raw version token: surrounding whitespace and a
// leading "v"/"V" prefix are stripped. Token equality everywhere in this
// module is exact string equality after normalization, so "v2", "V2" and "2"
// all identify the same version.
//
// Returns ErrMalformedToken if the trimmed input does not match the accepted
// token shape.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !tokenPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrMalformedToken, raw)
	}
	if trimmed[0] == 'v' || trimmed[0] == 'V' {
		trimmed = trimmed[1:]
	}

	return trimmed, nil
}

// IsWellFormed reports whether raw would survive Normalize.
func IsWellFormed(raw string) bool {
	return tokenPattern.MatchString(strings.TrimSpace(raw))
}

// MustNormalize is Normalize for statically known tokens. It panics on
// malformed input and is intended for registration-time literals.
func MustNormalize(raw string) string {
	tok, err := Normalize(raw)
	if err != nil {
		panic(err)
	}

	return tok
}
