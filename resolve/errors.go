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
	"errors"
	"fmt"
	"strings"
)

// Static errors for resolver configuration validation.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	ErrNoChannels                = errors.New("at least one channel must be configured")
	ErrNegativeSegment           = errors.New("path segment index cannot be negative")
	ErrEmptyHeaderName           = errors.New("header name cannot be empty")
	ErrEmptyQueryParam           = errors.New("query parameter name cannot be empty")
	ErrMissingVersionPlaceholder = errors.New("pattern must contain {version} placeholder")
	ErrPrecedenceIncomplete      = errors.New("precedence must rank every configured channel")
	ErrUnknownChannel            = errors.New("unknown channel")
	ErrDuplicateChannel          = errors.New("channel configured twice")
	ErrNilRegistry               = errors.New("registry cannot be nil")
	ErrNoDefaultVersion          = errors.New("registry has no default version and version specification is not mandatory")
	ErrDefaultNotRegistered      = errors.New("default version is not registered")
)

// Resolution failure sentinels. Every resolution failure is a deterministic
// function of the request and registry state; none is transient.
var (
	// ErrMalformed: an explicit version token failed normalization. Never
	// defaulted, even when another channel carries a valid token.
	ErrMalformed = errors.New("malformed version")

	// ErrMissingVersion: no channel carried a token and the configuration
	// marks version specification mandatory.
	ErrMissingVersion = errors.New("no version specified")

	// ErrUnknownVersion: the chosen token is not present in the registry.
	ErrUnknownVersion = errors.New("unknown version")
)

// Error is a structured resolution failure.
type Error struct {
	// Kind is the matching sentinel: ErrMalformed, ErrMissingVersion or
	// ErrUnknownVersion.
	Kind error

	// Channels lists the offending channels: the malformed ones, or the
	// channel whose token turned out unknown.
	Channels []Channel

	// Raw is the wire value that failed normalization, when Kind is
	// ErrMalformed.
	Raw string

	// Token is the chosen-but-unregistered token, when Kind is
	// ErrUnknownVersion.
	Token string
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrMalformed):
		return fmt.Sprintf("%v %q on channel %s", e.Kind, e.Raw, joinChannels(e.Channels))
	case errors.Is(e.Kind, ErrUnknownVersion):
		return fmt.Sprintf("%v %q", e.Kind, e.Token)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func joinChannels(channels []Channel) string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = string(c)
	}

	return strings.Join(names, ", ")
}
