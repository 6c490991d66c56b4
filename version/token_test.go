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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare numeric", "2", "2"},
		{"v prefix", "v2", "2"},
		{"uppercase V prefix", "V2", "2"},
		{"minor version", "2.1", "2.1"},
		{"v prefix with minor", "v2.1", "2.1"},
		{"calendar version", "2024-06-01", "2024-06-01"},
		{"surrounding whitespace", "  v3 ", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "latest", "v", "2x", "v2beta", "2024-6-1", "1.2.3", "-1"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(in)
			require.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	t.Parallel()

	// "v2", "V2" and "2" identify the same version after normalization.
	a, err := Normalize("v2")
	require.NoError(t, err)
	b, err := Normalize("V2")
	require.NoError(t, err)
	c, err := Normalize("2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestIsWellFormed(t *testing.T) {
	t.Parallel()

	assert.True(t, IsWellFormed("v1"))
	assert.True(t, IsWellFormed("2024-06-01"))
	assert.False(t, IsWellFormed("stable"))
	assert.False(t, IsWellFormed(""))
}

func TestMustNormalizePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNormalize("not-a-version") })
	assert.Equal(t, "2", MustNormalize("v2"))
}
