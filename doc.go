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

// Package verso is a version resolution and routing engine for HTTP APIs
// that serve multiple versions simultaneously.
//
// A request can express its desired version in four places at once: a path
// segment, a custom header, a query parameter, or a vendor media type. The
// pipeline reconciles them into one resolved version, dispatches to the
// handler registered for (version, route), and annotates the response with
// lifecycle metadata (Deprecation, Sunset, Link and API-Supported-Versions
// headers) without the handler knowing.
//
//	reg := version.NewRegistry(version.WithDefault("2"))
//	reg.Register(version.Descriptor{Token: "1"})
//	reg.Register(version.Descriptor{Token: "2"})
//	reg.Deprecate("1", "https://docs.example.com/migrate/v1-to-v2")
//
//	resolver, err := resolve.New(reg,
//	    resolve.WithPathChannel(0),
//	    resolve.WithHeaderChannel("API-Version"),
//	)
//
//	table := dispatch.NewTable()
//	table.RegisterFunc("1", "users", usersV1)
//	table.RegisterFunc("2", "users", usersV2)
//
//	p, err := verso.New(resolver, table, verso.WithVersionHeader())
//	http.ListenAndServe(":8080", p)
//
// The pipeline is linear per request: extract, resolve, dispatch, annotate.
// A malformed version fails with 400 even when another channel carries a
// valid one; a request with no version signal gets the registry default; an
// unknown version fails with the supported versions listed; a version
// without a handler for the route fails as route_not_implemented. Handler
// errors pass through untouched.
//
// Registries and dispatch tables are read on every request and mutate only
// through administrative operations, so their read paths are lock-free
// snapshot loads. See the admin package for the HTTP administrative surface
// and NewMetrics for OpenTelemetry counters.
package verso
