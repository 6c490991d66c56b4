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

// Package version holds the registry of API versions a service supports.
//
// Each version is a normalized token (see Normalize) tagged with a lifecycle
// state: active, deprecated, or sunset. Transitions are administrative,
// strictly forward, and append-only: a token can never be re-registered and
// a sunset version can never come back.
//
//	reg := version.NewRegistry(version.WithDefault("2"))
//	reg.Register(version.Descriptor{Token: "1"})
//	reg.Register(version.Descriptor{Token: "2"})
//	reg.Deprecate("1", "https://docs.example.com/migrate/v1-to-v2")
//	reg.Sunset("1", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
//
// The registry is read on every request (token validation, supported-version
// headers), so the read path is a lock-free atomic snapshot load; writes are
// rare and serialize on a mutex.
//
// Registry state is process-resident. The surrounding service may declare it
// in YAML and build it with Manifest.BuildRegistry; reloading is the
// service's concern, typically by building a new registry and swapping the
// reference.
package version
