// Package entities contains domain entities for the lintcfg domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// Profile is a named, reusable bundle of rule settings and parser configuration.
// Profiles are registered once at startup and never mutated afterwards.
//
// Invariants Enforced:
// - Profile name is required
// - Version, when set, is a semantic version
// - Rule keys are well formed and unique (map keys)
// - Every rule has a valid severity
type Profile struct {
	Name          string
	Version       string
	Description   string
	Root          bool
	Extends       []string
	Env           map[string]bool
	Parser        ParserSettings
	Plugins       []string
	Settings      map[string]interface{}
	Rules         map[string]RuleSetting
	Compatibility CompatibilityTable
}

// ParserSettings describes the source dialect handed to the engine's parser.
type ParserSettings struct {
	Parser       string
	EcmaVersion  string
	SourceType   string
	EcmaFeatures map[string]bool
}

// IsEmpty returns true if no parser field is set.
func (p ParserSettings) IsEmpty() bool {
	return p.Parser == "" && p.EcmaVersion == "" && p.SourceType == "" && len(p.EcmaFeatures) == 0
}

// EnabledFeatures returns the ecmaFeatures switched on, sorted.
func (p ParserSettings) EnabledFeatures() []string {
	features := make([]string, 0, len(p.EcmaFeatures))
	for name, on := range p.EcmaFeatures {
		if on {
			features = append(features, name)
		}
	}
	sort.Strings(features)
	return features
}

// ParserCapabilities lists what a parser supports.
type ParserCapabilities struct {
	Features    []string
	SourceTypes []string
}

// SupportsFeature reports whether the parser accepts the ecmaFeature.
func (c ParserCapabilities) SupportsFeature(feature string) bool {
	return contains(c.Features, feature)
}

// SupportsSourceType reports whether the parser accepts the sourceType.
// An empty list means any source type.
func (c ParserCapabilities) SupportsSourceType(sourceType string) bool {
	return len(c.SourceTypes) == 0 || contains(c.SourceTypes, sourceType)
}

// CompatibilityTable maps a parser identifier to its declared capabilities.
// It is supplied alongside each profile since parser capability metadata is
// not otherwise available to the resolver.
type CompatibilityTable map[string]ParserCapabilities

// Lookup returns the capabilities declared for a parser.
func (t CompatibilityTable) Lookup(parser string) (ParserCapabilities, bool) {
	c, ok := t[parser]
	return c, ok
}

// Validate checks the profile's own invariants.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.Version != "" {
		if _, err := semver.StrictNewVersion(p.Version); err != nil {
			return fmt.Errorf("profile %s: version %q is not a semantic version: %w", p.Name, p.Version, err)
		}
	}
	for _, plugin := range p.Plugins {
		if _, err := values.NewPluginName(plugin); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
	}
	for _, key := range sortedKeys(p.Rules) {
		if _, err := values.NewRuleKey(key); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		if !p.Rules[key].Severity.IsValid() {
			return fmt.Errorf("profile %s: rule %s has invalid severity", p.Name, key)
		}
	}
	return nil
}

// DeclaredPlugins returns the normalized plugin names declared by the profile,
// including plugins loaded implicitly through "plugin:<name>/<config>" extends
// entries. Order is declaration order, duplicates removed.
func (p *Profile) DeclaredPlugins() []string {
	return declaredPlugins(p.Plugins, p.Extends)
}

// RuleCount returns the number of configured rules.
func (p *Profile) RuleCount() int {
	return len(p.Rules)
}

// GetRule returns the setting for a rule key.
func (p *Profile) GetRule(key string) (RuleSetting, bool) {
	r, ok := p.Rules[key]
	return r, ok
}

func declaredPlugins(plugins, extends []string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, plugin := range plugins {
		if pn, err := values.NewPluginName(plugin); err == nil {
			add(pn.String())
		}
	}
	for _, entry := range extends {
		if pn, ok := values.ImpliedPlugin(entry); ok {
			add(pn.String())
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
