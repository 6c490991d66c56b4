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
	"net/http"
	"net/url"
)

// Channel is one of the four request locations a version token may appear in.
type Channel string

const (
	// ChannelPath is a version segment in the URL path, e.g. /v2/users.
	ChannelPath Channel = "path"

	// ChannelHeader is a custom version header, e.g. API-Version: 2.
	ChannelHeader Channel = "header"

	// ChannelQuery is a query parameter, e.g. ?api-version=2.
	ChannelQuery Channel = "query"

	// ChannelMediaType is a vendor media type in the Accept header,
	// e.g. Accept: application/vnd.example.v2+json.
	ChannelMediaType Channel = "media-type"
)

// DefaultPrecedence is the channel ranking used to break conflicts when no
// explicit precedence is configured. The ordering is an engineering choice,
// not a protocol requirement; override it with WithPrecedence.
var DefaultPrecedence = []Channel{ChannelPath, ChannelHeader, ChannelMediaType, ChannelQuery}

// Request is the transport-independent view of one inbound request, as
// produced by the surrounding HTTP layer. Repeated headers and query
// parameters contribute their first value only.
type Request struct {
	// Path is the URL path, e.g. "/v2/users/123".
	Path string

	// Header is the request header map. Lookups are case-insensitive per
	// HTTP semantics.
	Header http.Header

	// Query holds the decoded query parameters.
	Query url.Values

	// Accept is the raw Accept header value, possibly listing several
	// media types.
	Accept string
}

// FromHTTP builds a Request from a net/http request.
func FromHTTP(r *http.Request) Request {
	req := Request{Header: r.Header}
	if r.URL != nil {
		req.Path = r.URL.Path
		req.Query = r.URL.Query()
	}
	req.Accept = r.Header.Get("Accept")

	return req
}

// ExtractionState classifies one channel's outcome on one request.
type ExtractionState int

const (
	// Absent means the channel carried no version signal at all. Absence is
	// a first-class outcome, never an error.
	Absent ExtractionState = iota

	// Found means the channel carried a well-formed token.
	Found

	// Malformed means the channel carried something that was clearly meant
	// as a version but failed normalization. The resolver fails fast on it:
	// a consumer who tried to specify a version and got it wrong must not be
	// silently served a default.
	Malformed
)

// String returns the state name for observability labels.
func (s ExtractionState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Found:
		return "found"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Extraction is one channel's result for one request. Request-scoped, never
// cached across requests.
type Extraction struct {
	// Channel identifies where the token was looked for.
	Channel Channel

	// State classifies the outcome.
	State ExtractionState

	// Token is the normalized token when State is Found.
	Token string

	// Raw is the value as seen on the wire, kept for malformed reporting.
	Raw string
}
