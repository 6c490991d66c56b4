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
	"slices"
	"strings"

	"github.com/verso-http/verso/version"
)

// extractor pulls a raw version token from one channel of a request.
type extractor interface {
	Extract(req Request) Extraction
	Channel() Channel
}

// ═══════════════════════════════════════════════════════════════════════════════
// Path Extractor
// ═══════════════════════════════════════════════════════════════════════════════

// pathExtractor looks for a version token in one configured path segment.
// A segment that does not look like a version is Absent, not Malformed: path
// segments are usually resource names, so "/users/123" at position 0 is a
// request with no path version, not a broken one.
type pathExtractor struct {
	position int // segment index, 0-based
}

func (e *pathExtractor) Channel() Channel { return ChannelPath }

func (e *pathExtractor) Extract(req Request) Extraction {
	out := Extraction{Channel: ChannelPath}

	segment, ok := pathSegment(req.Path, e.position)
	if !ok {
		return out
	}
	out.Raw = segment

	tok, err := version.Normalize(segment)
	if err != nil {
		return out // not version-shaped: absent
	}
	out.State = Found
	out.Token = tok

	return out
}

// pathSegment returns the n-th non-empty segment of path.
func pathSegment(path string, n int) (string, bool) {
	path = strings.TrimPrefix(path, "/")
	for i := 0; path != ""; i++ {
		end := strings.IndexByte(path, '/')
		var segment string
		if end == -1 {
			segment, path = path, ""
		} else {
			segment, path = path[:end], path[end+1:]
		}
		if i == n {
			return segment, segment != ""
		}
	}

	return "", false
}

// StripSegment removes the extractor's version segment from a path, so
// handlers can be registered against version-agnostic routes.
// "/v2/users/123" becomes "/users/123". Paths without a version segment at
// the configured position are returned unchanged.
func (e *pathExtractor) StripSegment(path string) string {
	segment, ok := pathSegment(path, e.position)
	if !ok || !version.IsWellFormed(segment) {
		return path
	}

	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	segs = slices.Delete(segs, e.position, e.position+1)
	if len(segs) == 0 {
		return "/"
	}

	return "/" + strings.Join(segs, "/")
}

// ═══════════════════════════════════════════════════════════════════════════════
// Header Extractor
// ═══════════════════════════════════════════════════════════════════════════════

// headerExtractor reads a configured header. Plain values ("2", "v2") are
// normalized directly. Structured media-type values
// ("application/vnd.example.v2+json") go through the configured sub-pattern
// first. A present value that yields no well-formed token is Malformed.
type headerExtractor struct {
	name string
	sub  *subPattern // optional, shared with the media-type channel
}

func (e *headerExtractor) Channel() Channel { return ChannelHeader }

func (e *headerExtractor) Extract(req Request) Extraction {
	out := Extraction{Channel: ChannelHeader}
	if req.Header == nil {
		return out
	}

	raw := strings.TrimSpace(req.Header.Get(e.name))
	if raw == "" {
		return out
	}
	out.Raw = raw

	candidate := raw
	if e.sub != nil {
		if captured, ok := e.sub.capture(raw); ok {
			candidate = captured
		}
	}

	tok, err := version.Normalize(candidate)
	if err != nil {
		out.State = Malformed
		return out
	}
	out.State = Found
	out.Token = tok

	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// Query Extractor
// ═══════════════════════════════════════════════════════════════════════════════

type queryExtractor struct {
	param string
}

func (e *queryExtractor) Channel() Channel { return ChannelQuery }

func (e *queryExtractor) Extract(req Request) Extraction {
	out := Extraction{Channel: ChannelQuery}
	if req.Query == nil {
		return out
	}

	raw := strings.TrimSpace(req.Query.Get(e.param))
	if raw == "" {
		return out // absent covers both missing and empty
	}
	out.Raw = raw

	tok, err := version.Normalize(raw)
	if err != nil {
		out.State = Malformed
		return out
	}
	out.State = Found
	out.Token = tok

	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// Media-Type Extractor
// ═══════════════════════════════════════════════════════════════════════════════

// mediaTypeExtractor matches the Accept header's media types against the
// configured sub-pattern. An Accept header that simply never matches the
// pattern (e.g. "application/json") is Absent; a match whose captured token
// fails normalization is Malformed.
type mediaTypeExtractor struct {
	sub *subPattern
}

func (e *mediaTypeExtractor) Channel() Channel { return ChannelMediaType }

func (e *mediaTypeExtractor) Extract(req Request) Extraction {
	out := Extraction{Channel: ChannelMediaType}
	if req.Accept == "" {
		return out
	}

	for mediaType := range strings.SplitSeq(req.Accept, ",") {
		mediaType = strings.TrimSpace(mediaType)

		// Drop parameters like ;q=0.9
		if semi := strings.IndexByte(mediaType, ';'); semi >= 0 {
			mediaType = strings.TrimSpace(mediaType[:semi])
		}

		captured, ok := e.sub.capture(mediaType)
		if !ok {
			continue
		}
		out.Raw = mediaType

		tok, err := version.Normalize(captured)
		if err != nil {
			out.State = Malformed
			return out
		}
		out.State = Found
		out.Token = tok

		return out
	}

	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// Sub-pattern
// ═══════════════════════════════════════════════════════════════════════════════

// subPattern extracts the version substring from a structured value using a
// "{version}" placeholder, e.g. "application/vnd.example.v{version}+json".
type subPattern struct {
	prefix string
	suffix string
}

const versionPlaceholder = "{version}"

func newSubPattern(pattern string) (*subPattern, bool) {
	idx := strings.Index(pattern, versionPlaceholder)
	if idx < 0 {
		return nil, false
	}

	return &subPattern{
		prefix: pattern[:idx],
		suffix: pattern[idx+len(versionPlaceholder):],
	}, true
}

func (p *subPattern) capture(value string) (string, bool) {
	if !strings.HasPrefix(value, p.prefix) || !strings.HasSuffix(value, p.suffix) {
		return "", false
	}
	captured := value[len(p.prefix) : len(value)-len(p.suffix)]

	return captured, captured != ""
}
