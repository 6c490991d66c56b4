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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		position int
		path     string
		state    ExtractionState
		token    string
	}{
		{"version at root", 0, "/v2/users/123", Found, "2"},
		{"bare numeric", 0, "/2/users", Found, "2"},
		{"calendar version", 0, "/2024-06-01/users", Found, "2024-06-01"},
		{"nested position", 1, "/api/v3/users", Found, "3"},
		{"no version segment", 0, "/users/123", Absent, ""},
		{"segment is not a version", 1, "/api/users", Absent, ""},
		{"position past end", 2, "/v2", Absent, ""},
		{"empty path", 0, "/", Absent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x := &pathExtractor{position: tt.position}

			got := x.Extract(Request{Path: tt.path})
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.token, got.Token)
			assert.Equal(t, ChannelPath, got.Channel)
		})
	}
}

func TestPathExtractorStripSegment(t *testing.T) {
	t.Parallel()

	x := &pathExtractor{position: 0}
	assert.Equal(t, "/users/123", x.StripSegment("/v2/users/123"))
	assert.Equal(t, "/", x.StripSegment("/v2"))
	assert.Equal(t, "/users/123", x.StripSegment("/users/123"), "unversioned path unchanged")

	nested := &pathExtractor{position: 1}
	assert.Equal(t, "/api/users", nested.StripSegment("/api/v2/users"))
}

func TestHeaderExtractor(t *testing.T) {
	t.Parallel()

	newReq := func(name, value string) Request {
		h := http.Header{}
		if value != "" {
			h.Set(name, value)
		}

		return Request{Header: h}
	}

	t.Run("plain value", func(t *testing.T) {
		t.Parallel()
		x := &headerExtractor{name: "API-Version"}

		got := x.Extract(newReq("API-Version", "v2"))
		assert.Equal(t, Found, got.State)
		assert.Equal(t, "2", got.Token)
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		t.Parallel()
		x := &headerExtractor{name: "API-Version"}

		got := x.Extract(newReq("api-version", "1"))
		assert.Equal(t, Found, got.State)
		assert.Equal(t, "1", got.Token)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		x := &headerExtractor{name: "API-Version"}

		got := x.Extract(Request{Header: http.Header{}})
		assert.Equal(t, Absent, got.State)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		x := &headerExtractor{name: "API-Version"}

		got := x.Extract(newReq("API-Version", "latest"))
		assert.Equal(t, Malformed, got.State)
		assert.Equal(t, "latest", got.Raw)
	})

	t.Run("structured value through sub-pattern", func(t *testing.T) {
		t.Parallel()
		sub, ok := newSubPattern("application/vnd.example.v{version}+json")
		require.True(t, ok)
		x := &headerExtractor{name: "Content-Type", sub: sub}

		got := x.Extract(newReq("Content-Type", "application/vnd.example.v2+json"))
		assert.Equal(t, Found, got.State)
		assert.Equal(t, "2", got.Token)
	})

	t.Run("first value of repeated header wins", func(t *testing.T) {
		t.Parallel()
		x := &headerExtractor{name: "API-Version"}
		h := http.Header{}
		h.Add("API-Version", "1")
		h.Add("API-Version", "2")

		got := x.Extract(Request{Header: h})
		assert.Equal(t, "1", got.Token)
	})
}

func TestQueryExtractor(t *testing.T) {
	t.Parallel()

	x := &queryExtractor{param: "api-version"}

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		got := x.Extract(Request{Query: url.Values{"api-version": {"v2"}}})
		assert.Equal(t, Found, got.State)
		assert.Equal(t, "2", got.Token)
	})

	t.Run("missing parameter is absent", func(t *testing.T) {
		t.Parallel()
		got := x.Extract(Request{Query: url.Values{"other": {"1"}}})
		assert.Equal(t, Absent, got.State)
	})

	t.Run("empty value is absent", func(t *testing.T) {
		t.Parallel()
		got := x.Extract(Request{Query: url.Values{"api-version": {""}}})
		assert.Equal(t, Absent, got.State)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		got := x.Extract(Request{Query: url.Values{"api-version": {"two"}}})
		assert.Equal(t, Malformed, got.State)
	})
}

func TestMediaTypeExtractor(t *testing.T) {
	t.Parallel()

	sub, ok := newSubPattern("application/vnd.example.v{version}+json")
	require.True(t, ok)
	x := &mediaTypeExtractor{sub: sub}

	tests := []struct {
		name   string
		accept string
		state  ExtractionState
		token  string
	}{
		{"vendor media type", "application/vnd.example.v2+json", Found, "2"},
		{"with quality parameter", "application/vnd.example.v1+json;q=0.9", Found, "1"},
		{"among several media types", "text/html, application/vnd.example.v3+json, */*", Found, "3"},
		{"plain accept is absent", "application/json", Absent, ""},
		{"empty accept is absent", "", Absent, ""},
		{"matching but malformed token", "application/vnd.example.vNaN+json", Malformed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := x.Extract(Request{Accept: tt.accept})
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.token, got.Token)
		})
	}
}

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	httpReq, err := http.NewRequest(http.MethodGet, "https://api.example.com/v2/users?api-version=2", nil)
	require.NoError(t, err)
	httpReq.Header.Set("Accept", "application/vnd.example.v2+json")

	req := FromHTTP(httpReq)
	assert.Equal(t, "/v2/users", req.Path)
	assert.Equal(t, "2", req.Query.Get("api-version"))
	assert.Equal(t, "application/vnd.example.v2+json", req.Accept)
}
