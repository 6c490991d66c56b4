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
	"context"

	"github.com/verso-http/verso/resolve"
)

// Resolution is the per-request version decision the pipeline stores in the
// request context before dispatching, so handlers can read which version and
// route they were chosen for without re-parsing anything.
type Resolution struct {
	// Token is the resolved version token.
	Token string

	// Source is the channel that decided, or resolve.SourceDefault.
	Source resolve.Source

	// Route is the route identifier used for dispatch.
	Route string
}

type resolutionKey struct{}

// NewContext returns a context carrying a Resolution.
func NewContext(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey{}, res)
}

// FromContext returns the Resolution stored by the pipeline, if any.
func FromContext(ctx context.Context) (Resolution, bool) {
	res, ok := ctx.Value(resolutionKey{}).(Resolution)
	return res, ok
}

// VersionFromContext returns just the resolved version token, or "".
func VersionFromContext(ctx context.Context) string {
	res, _ := FromContext(ctx)
	return res.Token
}
