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

package dispatch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verso-http/verso/version"
)

func noop(http.ResponseWriter, *http.Request) {}

func TestTableRegister(t *testing.T) {
	t.Parallel()

	t.Run("register and resolve", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		require.NoError(t, table.RegisterFunc("v2", "users", noop))

		// Token normalization applies on both sides.
		h, ok := table.Resolve("2", "users")
		assert.True(t, ok)
		assert.NotNil(t, h)
	})

	t.Run("missing route", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		require.NoError(t, table.RegisterFunc("2", "users", noop))

		_, ok := table.Resolve("2", "orders")
		assert.False(t, ok)
		_, ok = table.Resolve("1", "users")
		assert.False(t, ok)
	})

	t.Run("replace in place", func(t *testing.T) {
		t.Parallel()
		table := NewTable()

		first := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		second := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, table.Register("1", "users", first))
		require.NoError(t, table.Register("1", "users", second))

		h, ok := table.Resolve("1", "users")
		require.True(t, ok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		table := NewTable()

		require.ErrorIs(t, table.RegisterFunc("nope", "users", noop), version.ErrMalformedToken)
		require.ErrorIs(t, table.RegisterFunc("1", "", noop), ErrEmptyRoute)
		require.ErrorIs(t, table.Register("1", "users", nil), ErrNilHandler)
	})
}

func TestTableListings(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.RegisterFunc("2", "users", noop))
	require.NoError(t, table.RegisterFunc("2", "orders", noop))
	require.NoError(t, table.RegisterFunc("1", "users", noop))

	assert.Equal(t, []string{"orders", "users"}, table.Routes("v2"))
	assert.Equal(t, []string{"1", "2"}, table.Versions())
	assert.Empty(t, table.Routes("9"))
}

func TestTableConcurrent(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.RegisterFunc("1", "users", noop))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if _, ok := table.Resolve("1", "users"); !ok {
					t.Error("registered handler vanished")
					return
				}
			}
		}()
	}
	for i := range 4 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = table.RegisterFunc("2", fmt.Sprintf("route-%d", i), noop)
		}(i)
	}
	wg.Wait()

	assert.Len(t, table.Routes("2"), 4)
}
