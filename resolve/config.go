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

// Config holds the resolver configuration. Built once via functional options
// and validated fail-fast; immutable afterwards.
type Config struct {
	// Channel configuration. A channel participates only if configured.
	pathEnabled      bool
	pathPosition     int
	headerName       string
	queryParam       string
	mediaTypeEnabled bool

	// mediaTypePattern is the {version} sub-pattern shared by the
	// media-type channel and structured header values.
	mediaTypePattern string

	// precedence ranks channels for conflict resolution.
	precedence []Channel

	// mandatory rejects requests that carry no version signal instead of
	// applying the registry default.
	mandatory bool

	// Built by finalize, in configuration order.
	extractors []extractor
	pathX      *pathExtractor
}

// Option configures the resolver.
type Option func(*Config) error

// NewConfig creates a resolver Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{pathPosition: -1}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// finalize assembles extractors and validates the configuration as a whole.
// Assembly is deferred so option ordering never matters: the media-type
// pattern may be set before or after the channels that use it.
func (c *Config) finalize() error {
	var sub *subPattern
	if c.mediaTypePattern != "" {
		var ok bool
		sub, ok = newSubPattern(c.mediaTypePattern)
		if !ok {
			return fmt.Errorf("%w: media type pattern %q", ErrMissingVersionPlaceholder, c.mediaTypePattern)
		}
	}

	if c.pathEnabled {
		c.pathX = &pathExtractor{position: c.pathPosition}
		c.extractors = append(c.extractors, c.pathX)
	}
	if c.headerName != "" {
		c.extractors = append(c.extractors, &headerExtractor{name: c.headerName, sub: sub})
	}
	if c.queryParam != "" {
		c.extractors = append(c.extractors, &queryExtractor{param: c.queryParam})
	}
	if c.mediaTypeEnabled {
		if sub == nil {
			return fmt.Errorf("%w: media type channel requires a pattern", ErrMissingVersionPlaceholder)
		}
		c.extractors = append(c.extractors, &mediaTypeExtractor{sub: sub})
	}

	if len(c.extractors) == 0 {
		return ErrNoChannels
	}

	if len(c.precedence) == 0 {
		c.precedence = slices.Clone(DefaultPrecedence)
	}
	for _, x := range c.extractors {
		if !slices.Contains(c.precedence, x.Channel()) {
			return fmt.Errorf("%w: %s is configured but unranked", ErrPrecedenceIncomplete, x.Channel())
		}
	}

	return nil
}

// rank returns the precedence rank of a channel; lower wins.
func (c *Config) rank(ch Channel) int {
	if i := slices.Index(c.precedence, ch); i >= 0 {
		return i
	}

	return len(c.precedence)
}

// Mandatory reports whether version specification is required.
func (c *Config) Mandatory() bool {
	return c.mandatory
}

// Precedence returns the configured channel ranking.
func (c *Config) Precedence() []Channel {
	return slices.Clone(c.precedence)
}

// Channels returns the configured channels in configuration order.
func (c *Config) Channels() []Channel {
	out := make([]Channel, len(c.extractors))
	for i, x := range c.extractors {
		out[i] = x.Channel()
	}

	return out
}

func (c *Config) String() string {
	names := make([]string, len(c.precedence))
	for i, ch := range c.precedence {
		names[i] = string(ch)
	}

	return fmt.Sprintf("resolve.Config{channels: %v, precedence: %s, mandatory: %t}",
		c.Channels(), strings.Join(names, " > "), c.mandatory)
}
