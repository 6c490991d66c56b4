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

// Package resolve reconciles the several places a request can carry an API
// version into exactly one resolved version.
//
// A version may arrive on four channels: a path segment (/v2/users), a
// custom header (API-Version: 2), a query parameter (?api-version=2), or a
// vendor media type (Accept: application/vnd.example.v2+json). Each channel
// is extracted independently; the resolver then reconciles them:
//
//   - a malformed explicit token fails immediately, even if another channel
//     carries a valid one
//   - no signal at all applies the registry's default version, or fails when
//     WithMandatory is set
//   - agreeing channels resolve to their common token
//   - conflicting channels resolve by the configured precedence, with the
//     losing channels recorded on the Outcome for observability
//   - the chosen token must exist in the registry
//
// The default precedence is Path > Header > MediaType > Query; it is a
// configuration default, not a fixed rule.
//
//	reg := version.NewRegistry(version.WithDefault("2"))
//	// ... register versions ...
//
//	r, err := resolve.New(reg,
//	    resolve.WithPathChannel(0),
//	    resolve.WithHeaderChannel("API-Version"),
//	    resolve.WithQueryChannel("api-version"),
//	    resolve.WithMediaTypeChannel(),
//	    resolve.WithMediaTypePattern("application/vnd.example.v{version}+json"),
//	)
//
//	outcome, err := r.Resolve(resolve.FromHTTP(httpReq))
package resolve
