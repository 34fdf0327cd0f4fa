package entities

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// OverrideFragment is a partial set of changes layered on top of a profile.
//
// A nil entry in Rules means "unset": the rule is removed from the result
// rather than switched off.
type OverrideFragment struct {
	Name     string
	Source   string
	Include  []string
	Requires string
	Extends  []string
	Env      map[string]bool
	Parser   ParserSettings
	Plugins  []string
	Settings map[string]interface{}
	Rules    map[string]*RuleSetting
}

// Validate checks the fragment's own invariants.
func (f *OverrideFragment) Validate() error {
	if f.Requires != "" {
		if _, err := semver.NewConstraint(f.Requires); err != nil {
			return fmt.Errorf("fragment %s: invalid requires constraint %q: %w", f.Label(), f.Requires, err)
		}
	}
	for _, plugin := range f.Plugins {
		if _, err := values.NewPluginName(plugin); err != nil {
			return fmt.Errorf("fragment %s: %w", f.Label(), err)
		}
	}
	for _, key := range sortedKeys(f.Rules) {
		if _, err := values.NewRuleKey(key); err != nil {
			return fmt.Errorf("fragment %s: %w", f.Label(), err)
		}
		if setting := f.Rules[key]; setting != nil && !setting.Severity.IsValid() {
			return fmt.Errorf("fragment %s: rule %s has invalid severity", f.Label(), key)
		}
	}
	return nil
}

// Label returns the name used in messages: Name, falling back to Source.
func (f *OverrideFragment) Label() string {
	if f.Name != "" {
		return f.Name
	}
	if f.Source != "" {
		return f.Source
	}
	return "<inline>"
}

// DeclaredPlugins returns the plugins this fragment adds.
func (f *OverrideFragment) DeclaredPlugins() []string {
	return declaredPlugins(f.Plugins, f.Extends)
}

// IsUnset reports whether the fragment removes the rule.
func (f *OverrideFragment) IsUnset(key string) bool {
	setting, ok := f.Rules[key]
	return ok && setting == nil
}

// AcceptsProfileVersion checks the Requires constraint against a base
// profile version. A fragment without constraint accepts any version.
func (f *OverrideFragment) AcceptsProfileVersion(version string) (bool, error) {
	if f.Requires == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(f.Requires)
	if err != nil {
		return false, fmt.Errorf("invalid requires constraint %q: %w", f.Requires, err)
	}
	if version == "" {
		return false, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid profile version %q: %w", version, err)
	}
	return constraint.Check(v), nil
}
