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

package version

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Manifest is the YAML shape the surrounding service uses to declare
// registry state. The engine itself never reads files at request time; a
// manifest is loaded (or reloaded) by the operator and turned into a fresh
// Registry.
//
// Example:
//
//	default: "2"
//	active_ceiling: 3
//	versions:
//	  - token: "1"
//	    state: deprecated
//	    successor: "2"
//	    successor_link: https://docs.example.com/migrate/v1-to-v2
//	    sunset_at: 2026-12-31T00:00:00Z
//	  - token: "2"
//	    state: active
type Manifest struct {
	Default       string            `yaml:"default"`
	ActiveCeiling int               `yaml:"active_ceiling"`
	Versions      []ManifestVersion `yaml:"versions"`
}

// ManifestVersion is one version entry in a Manifest.
type ManifestVersion struct {
	Token           string     `yaml:"token"`
	State           State      `yaml:"state"`
	DeprecatedSince *time.Time `yaml:"deprecated_since"`
	SunsetAt        *time.Time `yaml:"sunset_at"`
	SuccessorLink   string     `yaml:"successor_link"`
	Successor       string     `yaml:"successor"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse version manifest: %w", err)
	}

	return &m, nil
}

// LoadManifest reads and decodes a YAML manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load version manifest: %w", err)
	}

	return ParseManifest(data)
}

// BuildRegistry turns a manifest into a fresh Registry. Entries are
// registered in manifest order so ListActive and SupportedTokens preserve
// it. The first error aborts the build; a manifest is all-or-nothing.
//
// Advisories raised during the build (active ceiling, deprecation without a
// successor link) are collected and returned alongside the registry.
func (m *Manifest) BuildRegistry(opts ...RegistryOption) (*Registry, []Advisory, error) {
	base := []RegistryOption{}
	if m.ActiveCeiling > 0 {
		base = append(base, WithActiveCeiling(m.ActiveCeiling))
	}
	reg := NewRegistry(append(base, opts...)...)

	var advisories []Advisory
	for i, mv := range m.Versions {
		d := Descriptor{
			Token:         mv.Token,
			State:         mv.State,
			SuccessorLink: mv.SuccessorLink,
			Successor:     mv.Successor,
		}
		if mv.DeprecatedSince != nil {
			d.DeprecatedSince = *mv.DeprecatedSince
		}
		if mv.SunsetAt != nil {
			d.SunsetAt = *mv.SunsetAt
		}

		adv, err := reg.Register(d)
		if err != nil {
			return nil, nil, fmt.Errorf("manifest entry %d (%q): %w", i, mv.Token, err)
		}
		if adv != "" {
			advisories = append(advisories, adv)
		}
	}

	if m.Default != "" {
		if err := reg.SetDefault(m.Default); err != nil {
			return nil, nil, fmt.Errorf("manifest default: %w", err)
		}
	}

	return reg, advisories, nil
}
