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

// Package admin exposes the version registry and dispatch table to
// governance and operations tooling over HTTP.
//
// Versions are added and retired operationally, not by code changes: an
// ops tool POSTs a registration when a new major version ships, a
// deprecation when its successor is stable, and a sunset when the parallel
// run period ends. Registry conflicts come back as 409; they are never
// silently ignored.
//
//	mux := http.NewServeMux()
//	mux.Handle("/admin/", http.StripPrefix("/admin", admin.NewHandler(reg, table)))
//
// Mount behind your own authentication; the package deliberately carries
// none.
package admin
