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

// Package dispatch maps a resolved version plus a route identifier to a
// registered handler.
//
// Handlers are opaque http.Handler values supplied by the surrounding
// service; the table indexes them, it never runs or wraps them. Lookups are
// lock-free atomic snapshot loads; registration copies and swaps the whole
// snapshot, which keeps the common path cheap at the cost of rare, coarse
// writes.
//
//	table := dispatch.NewTable()
//	table.RegisterFunc("1", "users", usersV1)
//	table.RegisterFunc("2", "users", usersV2)
//
//	h, ok := table.Resolve("2", "users")
package dispatch
