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

package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verso "github.com/verso-http/verso"
	"github.com/verso-http/verso/dispatch"
	"github.com/verso-http/verso/version"
)

func newAdmin(t *testing.T, opts ...Option) (*version.Registry, *dispatch.Table, http.Handler) {
	t.Helper()
	reg := version.NewRegistry()
	table := dispatch.NewTable()

	return reg, table, NewHandler(reg, table, opts...)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRegisterVersion(t *testing.T) {
	t.Parallel()

	t.Run("register", func(t *testing.T) {
		t.Parallel()
		reg, _, h := newAdmin(t)

		rec := do(h, http.MethodPost, "/versions", `{"token": "v2"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, reg.Has("2"))
	})

	t.Run("duplicate conflicts with 409", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)

		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)
		rec := do(h, http.MethodPost, "/versions", `{"token": "v1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed token is 400", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)

		rec := do(h, http.MethodPost, "/versions", `{"token": "not-a-version"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ceiling advisory surfaces as event", func(t *testing.T) {
		t.Parallel()
		var warnings []verso.Event
		_, _, h := newAdmin(t, WithEventHandler(func(e verso.Event) {
			if e.Type == verso.EventWarning {
				warnings = append(warnings, e)
			}
		}))

		for _, tok := range []string{"1", "2", "3", "4"} {
			require.Equal(t, http.StatusCreated,
				do(h, http.MethodPost, "/versions", `{"token": "`+tok+`"}`).Code)
		}
		assert.NotEmpty(t, warnings)
	})
}

func TestLifecycleEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("deprecate then sunset", func(t *testing.T) {
		t.Parallel()
		reg, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)

		rec := do(h, http.MethodPost, "/versions/1/deprecate",
			`{"successor_link": "https://docs.example.com/migrate"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		d, _ := reg.Get("1")
		assert.Equal(t, version.StateDeprecated, d.State)

		rec = do(h, http.MethodPost, "/versions/1/sunset", `{"at": "2026-12-31T00:00:00Z"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		d, _ = reg.Get("1")
		assert.Equal(t, version.StateSunset, d.State)
	})

	t.Run("deprecate after sunset is 409", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)
		require.Equal(t, http.StatusOK,
			do(h, http.MethodPost, "/versions/1/sunset", `{"at": "2026-01-01T00:00:00Z"}`).Code)

		rec := do(h, http.MethodPost, "/versions/1/deprecate", `{}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("sunset unknown version is 409", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)

		rec := do(h, http.MethodPost, "/versions/9/sunset", `{"at": "2026-01-01T00:00:00Z"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("sunset without timestamp is 400", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)

		rec := do(h, http.MethodPost, "/versions/1/sunset", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		reg, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)

		rec := do(h, http.MethodDelete, "/versions/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, reg.Has("1"))
	})

	t.Run("remove default is 409", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)
		require.Equal(t, http.StatusOK, do(h, http.MethodPut, "/default", `{"token": "1"}`).Code)

		rec := do(h, http.MethodDelete, "/versions/1", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("list versions", func(t *testing.T) {
		t.Parallel()
		_, _, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "2"}`).Code)
		require.Equal(t, http.StatusOK, do(h, http.MethodPut, "/default", `{"token": "2"}`).Code)

		rec := do(h, http.MethodGet, "/versions", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Default  string `json:"default"`
			Versions []struct {
				Token string `json:"token"`
				State string `json:"state"`
			} `json:"versions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "2", body.Default)
		require.Len(t, body.Versions, 2)
		assert.Equal(t, "active", body.Versions[0].State)
	})

	t.Run("list routes", func(t *testing.T) {
		t.Parallel()
		_, table, h := newAdmin(t)
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/versions", `{"token": "1"}`).Code)
		require.NoError(t, table.RegisterFunc("1", "users", func(http.ResponseWriter, *http.Request) {}))

		rec := do(h, http.MethodGet, "/versions/1/routes", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"users"`)

		rec = do(h, http.MethodGet, "/versions/9/routes", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
