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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/verso-http/verso/version"
)

// Response header names emitted by the pipeline.
const (
	// HeaderDeprecation flags a deprecated or sunset version ("true").
	HeaderDeprecation = "Deprecation"

	// HeaderSunset carries the removal date as an HTTP-date.
	HeaderSunset = "Sunset"

	// HeaderLink carries the migration URI with rel="successor-version".
	HeaderLink = "Link"

	// HeaderSupportedVersions lists the currently served version tokens,
	// comma-separated. Emitted on every response, not only deprecated ones.
	HeaderSupportedVersions = "API-Supported-Versions"

	// HeaderVersion echoes the resolved version (behind WithVersionHeader).
	HeaderVersion = "X-API-Version"

	// HeaderWarning carries the RFC 7234 "299" miscellaneous warning
	// (behind WithWarning299).
	HeaderWarning = "Warning"
)

// Annotations is the deprecation metadata derived from a version's lifecycle
// state. Producing it has no side effect on dispatch: a sunset version is
// still served until the registry removes it or sunset enforcement is
// switched on.
type Annotations struct {
	// Deprecated is set for deprecated and sunset versions.
	Deprecated bool

	// SunsetAt is the removal timestamp, when one is recorded.
	SunsetAt time.Time

	// SuccessorLink is the migration URI, when one is recorded.
	SuccessorLink string

	// Successor is the recommended follow-up version token.
	Successor string
}

// Annotate derives the annotation set for a descriptor: empty for active
// versions, deprecation metadata otherwise.
func Annotate(d version.Descriptor) Annotations {
	if d.State == version.StateActive {
		return Annotations{}
	}

	return Annotations{
		Deprecated:    true,
		SunsetAt:      d.SunsetAt,
		SuccessorLink: d.SuccessorLink,
		Successor:     d.Successor,
	}
}

// Empty reports whether there is nothing to emit.
func (a Annotations) Empty() bool {
	return !a.Deprecated
}

// Apply writes the annotation headers. The handler's own payload is never
// touched; annotation is layered on by the pipeline before dispatch.
func (a Annotations) Apply(h http.Header) {
	if a.Empty() {
		return
	}

	h.Set(HeaderDeprecation, "true")
	if !a.SunsetAt.IsZero() {
		h.Set(HeaderSunset, a.SunsetAt.UTC().Format(http.TimeFormat))
	}
	if a.SuccessorLink != "" {
		h.Set(HeaderLink, fmt.Sprintf("<%s>; rel=\"successor-version\"", a.SuccessorLink))
	}
}

// warning299 builds the RFC 7234 Warning value for a deprecated version.
func (a Annotations) warning299(token string) string {
	msg := fmt.Sprintf("299 - \"API version %s is deprecated", token)
	if !a.SunsetAt.IsZero() {
		msg += " and will be removed on " + a.SunsetAt.UTC().Format(time.RFC3339)
	}
	msg += ". Please migrate to a supported version.\""

	return msg
}

// supportedHeaderValue renders the registry's supported tokens for the
// API-Supported-Versions header.
func supportedHeaderValue(tokens []string) string {
	return strings.Join(tokens, ", ")
}
