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

import "github.com/verso-http/verso/resolve"

// Observer holds callbacks for per-request resolution events. All fields
// are optional; nil callbacks are skipped. Callbacks run synchronously on
// the request path, so keep them cheap.
type Observer struct {
	// OnResolved is called when a version is resolved, from a channel or
	// the default policy.
	OnResolved func(token string, source resolve.Source)

	// OnConflict is called when channels disagreed and precedence broke the
	// tie. The losers carry the channels and tokens that lost.
	OnConflict func(token string, losers []resolve.Extraction)

	// OnMissing is called when no channel carried a signal and the
	// mandatory policy rejected the request.
	OnMissing func()

	// OnMalformed is called when an explicit token failed normalization.
	OnMalformed func(channels []resolve.Channel, raw string)

	// OnUnknown is called when the chosen token is not in the registry.
	OnUnknown func(token string)

	// OnDeprecatedUse is called when a deprecated or sunset version serves
	// a request.
	OnDeprecatedUse func(token, route string)
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// OnResolved sets the callback for successful resolutions.
func OnResolved(fn func(token string, source resolve.Source)) ObserverOption {
	return func(o *Observer) { o.OnResolved = fn }
}

// OnConflict sets the callback for precedence tie-breaks.
func OnConflict(fn func(token string, losers []resolve.Extraction)) ObserverOption {
	return func(o *Observer) { o.OnConflict = fn }
}

// OnMissing sets the callback for mandatory-policy rejections.
func OnMissing(fn func()) ObserverOption {
	return func(o *Observer) { o.OnMissing = fn }
}

// OnMalformed sets the callback for malformed tokens.
func OnMalformed(fn func(channels []resolve.Channel, raw string)) ObserverOption {
	return func(o *Observer) { o.OnMalformed = fn }
}

// OnUnknown sets the callback for unknown-version failures.
func OnUnknown(fn func(token string)) ObserverOption {
	return func(o *Observer) { o.OnUnknown = fn }
}

// OnDeprecatedUse sets the callback for deprecated version usage.
func OnDeprecatedUse(fn func(token, route string)) ObserverOption {
	return func(o *Observer) { o.OnDeprecatedUse = fn }
}
