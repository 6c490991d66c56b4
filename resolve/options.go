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

package resolve

import (
	"fmt"
	"slices"
	"strings"
)

// WithPathChannel enables path-based extraction at the given 0-based segment
// index.
//
// Example:
//
//	resolve.WithPathChannel(0)
//	// Matches: /v2/users, /2024-06-01/users
//
//	resolve.WithPathChannel(1)
//	// Matches: /api/v2/users
func WithPathChannel(segmentIndex int) Option {
	return func(cfg *Config) error {
		if segmentIndex < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeSegment, segmentIndex)
		}
		if cfg.pathEnabled {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, ChannelPath)
		}
		cfg.pathEnabled = true
		cfg.pathPosition = segmentIndex

		return nil
	}
}

// WithHeaderChannel enables header-based extraction. Lookup is
// case-insensitive per HTTP header semantics. Plain values ("2", "v2") are
// used directly; structured media-type values are matched against the
// pattern configured with WithMediaTypePattern.
//
// Example:
//
//	resolve.WithHeaderChannel("API-Version")
//	// Client sends: API-Version: 2
func WithHeaderChannel(name string) Option {
	return func(cfg *Config) error {
		if name == "" {
			return ErrEmptyHeaderName
		}
		if cfg.headerName != "" {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, ChannelHeader)
		}
		cfg.headerName = name

		return nil
	}
}

// WithQueryChannel enables query-parameter extraction.
//
// Example:
//
//	resolve.WithQueryChannel("api-version")
//	// Client sends: GET /users?api-version=2
func WithQueryChannel(param string) Option {
	return func(cfg *Config) error {
		if param == "" {
			return ErrEmptyQueryParam
		}
		if cfg.queryParam != "" {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, ChannelQuery)
		}
		cfg.queryParam = param

		return nil
	}
}

// WithMediaTypeChannel enables Accept-header extraction using the pattern
// configured with WithMediaTypePattern.
//
// Example:
//
//	resolve.WithMediaTypeChannel(),
//	resolve.WithMediaTypePattern("application/vnd.example.v{version}+json"),
//	// Client sends: Accept: application/vnd.example.v2+json
func WithMediaTypeChannel() Option {
	return func(cfg *Config) error {
		if cfg.mediaTypeEnabled {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, ChannelMediaType)
		}
		cfg.mediaTypeEnabled = true

		return nil
	}
}

// WithMediaTypePattern sets the {version} sub-pattern used by the media-type
// channel and by structured header values. Must contain the {version}
// placeholder.
func WithMediaTypePattern(pattern string) Option {
	return func(cfg *Config) error {
		if !strings.Contains(pattern, versionPlaceholder) {
			return fmt.Errorf("%w: %q", ErrMissingVersionPlaceholder, pattern)
		}
		cfg.mediaTypePattern = pattern

		return nil
	}
}

// WithPrecedence sets the channel ranking used to break conflicts when
// several channels disagree; earlier entries win. The ranking must cover
// every configured channel. Defaults to DefaultPrecedence.
//
// Example:
//
//	resolve.WithPrecedence(resolve.ChannelHeader, resolve.ChannelPath,
//	    resolve.ChannelMediaType, resolve.ChannelQuery)
func WithPrecedence(channels ...Channel) Option {
	return func(cfg *Config) error {
		seen := make([]Channel, 0, len(channels))
		for _, ch := range channels {
			if !slices.Contains(DefaultPrecedence, ch) {
				return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
			}
			if slices.Contains(seen, ch) {
				return fmt.Errorf("%w: %s ranked twice", ErrDuplicateChannel, ch)
			}
			seen = append(seen, ch)
		}
		cfg.precedence = seen

		return nil
	}
}

// WithMandatory rejects requests that carry no version signal with
// ErrMissingVersion instead of applying the registry's default version.
func WithMandatory() Option {
	return func(cfg *Config) error {
		cfg.mandatory = true
		return nil
	}
}
