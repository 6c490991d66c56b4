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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Static errors for pipeline construction.
var (
	ErrNilResolver = errors.New("resolver cannot be nil")
	ErrNilTable    = errors.New("dispatch table cannot be nil")
)

// Machine-readable error codes carried in error response bodies. None of
// these failures is transient: each is a deterministic function of the
// request and registry state, so the pipeline never retries.
const (
	// CodeMalformed: an explicit version token failed normalization.
	CodeMalformed = "malformed_version"

	// CodeMissingVersion: no version was specified and the policy requires one.
	CodeMissingVersion = "missing_version"

	// CodeUnknownVersion: the resolved token is not a registered version.
	CodeUnknownVersion = "unknown_version"

	// CodeRouteNotImplemented: the version exists but has no handler for
	// this route. Distinct from unknown version: the resource may exist in
	// other versions.
	CodeRouteNotImplemented = "route_not_implemented"

	// CodeVersionSunset: the version is past its sunset date and
	// enforcement is enabled.
	CodeVersionSunset = "version_sunset"
)

// ErrorDetail is the JSON error body shape.
type ErrorDetail struct {
	// ID uniquely identifies this error instance, for log correlation.
	ID string `json:"id"`

	// Code is one of the Code* constants.
	Code string `json:"code"`

	// Message is human-readable context.
	Message string `json:"message"`

	// SupportedVersions aids self-correction on version errors.
	SupportedVersions []string `json:"supported_versions,omitempty"`
}

type errorPayload struct {
	Error ErrorDetail `json:"error"`
}

// writeError emits a structured JSON client error. Headers already set on w
// (API-Supported-Versions, annotations) are preserved.
func writeError(w http.ResponseWriter, status int, code, message string, supported []string) {
	detail := ErrorDetail{
		ID:                uuid.NewString(),
		Code:              code,
		Message:           message,
		SupportedVersions: supported,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// Encoding a flat struct cannot fail; the response is already committed
	// anyway.
	_ = json.NewEncoder(w).Encode(errorPayload{Error: detail})
}
