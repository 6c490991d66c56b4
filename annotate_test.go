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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verso-http/verso/version"
)

func TestAnnotate(t *testing.T) {
	t.Parallel()

	sunsetAt := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("active is empty", func(t *testing.T) {
		t.Parallel()
		a := Annotate(version.Descriptor{Token: "2", State: version.StateActive})
		assert.True(t, a.Empty())

		h := http.Header{}
		a.Apply(h)
		assert.Empty(t, h)
	})

	t.Run("deprecated", func(t *testing.T) {
		t.Parallel()
		a := Annotate(version.Descriptor{
			Token:         "1",
			State:         version.StateDeprecated,
			SuccessorLink: "https://docs.example.com/migrate",
			Successor:     "2",
		})
		assert.False(t, a.Empty())

		h := http.Header{}
		a.Apply(h)
		assert.Equal(t, "true", h.Get(HeaderDeprecation))
		assert.Equal(t, `<https://docs.example.com/migrate>; rel="successor-version"`, h.Get(HeaderLink))
		assert.Empty(t, h.Get(HeaderSunset))
	})

	t.Run("sunset", func(t *testing.T) {
		t.Parallel()
		a := Annotate(version.Descriptor{
			Token:         "1",
			State:         version.StateSunset,
			SunsetAt:      sunsetAt,
			SuccessorLink: "https://docs.example.com/migrate",
		})

		h := http.Header{}
		a.Apply(h)
		assert.Equal(t, "true", h.Get(HeaderDeprecation))
		assert.Equal(t, sunsetAt.Format(http.TimeFormat), h.Get(HeaderSunset))
		assert.NotEmpty(t, h.Get(HeaderLink))
	})

	t.Run("deprecated with planned sunset date", func(t *testing.T) {
		t.Parallel()
		a := Annotate(version.Descriptor{
			Token:    "1",
			State:    version.StateDeprecated,
			SunsetAt: sunsetAt,
		})

		h := http.Header{}
		a.Apply(h)
		assert.Equal(t, sunsetAt.Format(http.TimeFormat), h.Get(HeaderSunset))
	})
}

func TestWarning299(t *testing.T) {
	t.Parallel()

	a := Annotations{Deprecated: true, SunsetAt: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)}
	msg := a.warning299("1")
	assert.Contains(t, msg, "299")
	assert.Contains(t, msg, "API version 1 is deprecated")
	assert.Contains(t, msg, "2026-12-31")
}

func TestSupportedHeaderValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1, 2", supportedHeaderValue([]string{"1", "2"}))
	assert.Empty(t, supportedHeaderValue(nil))
}
