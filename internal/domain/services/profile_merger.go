package services

import (
	"fmt"
	"sort"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// ProfileMerger layers override fragments on top of a base profile.
// This is a DOMAIN SERVICE because merge semantics are business rules.
//
// Merge Semantics (fragments applied in order, later wins):
//   - Rules: replace per key; a nil entry removes the key
//   - Plugins: union, preserving order (base first)
//   - Extends: union, preserving order (base first)
//   - Env, Settings: replace per top-level key
//   - Parser: non-empty fields replace; ecmaFeatures replace per feature
//   - Root, Compatibility: taken from the base profile
//
// A fragment may only configure rules whose plugin namespace has been
// declared by the base, an earlier fragment, or the fragment itself.
type ProfileMerger struct{}

// NewProfileMerger creates a new profile merger service.
func NewProfileMerger() *ProfileMerger {
	return &ProfileMerger{}
}

// Merge resolves base plus overrides into a new ResolvedConfig.
// Inputs are not mutated. Identical inputs yield deep-equal results.
//
// Returns *entities.UnknownPluginError when a fragment references a rule of
// an undeclared plugin.
func (m *ProfileMerger) Merge(
	base *entities.Profile,
	overrides []*entities.OverrideFragment,
) (*entities.ResolvedConfig, error) {
	if base == nil {
		return nil, fmt.Errorf("cannot merge onto nil profile")
	}

	result := m.fromProfile(base)
	declared := toSet(result.Plugins)

	for i, fragment := range overrides {
		if fragment == nil {
			return nil, fmt.Errorf("override fragment %d is nil", i)
		}
		if err := m.applyFragment(result, declared, fragment); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// fromProfile seeds the running result with a copy of the base profile.
func (m *ProfileMerger) fromProfile(base *entities.Profile) *entities.ResolvedConfig {
	rules := CopyRules(base.Rules)
	if rules == nil {
		rules = make(map[string]entities.RuleSetting)
	}

	return &entities.ResolvedConfig{
		ProfileName:    base.Name,
		ProfileVersion: base.Version,
		Root:           base.Root,
		Env:            CopyBoolMap(base.Env),
		Extends:        CopyStringSlice(base.Extends),
		Parser:         CopyParser(base.Parser),
		Plugins:        base.DeclaredPlugins(),
		Settings:       CopySettings(base.Settings),
		Rules:          rules,
		Compatibility:  CopyCompatibility(base.Compatibility),
	}
}

// applyFragment merges one fragment into result (mutates result and declared).
func (m *ProfileMerger) applyFragment(
	result *entities.ResolvedConfig,
	declared map[string]bool,
	fragment *entities.OverrideFragment,
) error {
	// Plugins first: a fragment's own declarations cover its own rules.
	for _, plugin := range fragment.DeclaredPlugins() {
		if !declared[plugin] {
			declared[plugin] = true
			result.Plugins = append(result.Plugins, plugin)
		}
	}

	result.Extends = mergeStringSliceDedup(result.Extends, fragment.Extends)
	result.Env = m.mergeEnv(result.Env, fragment.Env)
	result.Parser = m.mergeParser(result.Parser, fragment.Parser)
	result.Settings = m.mergeSettings(result.Settings, fragment.Settings)

	// Sorted order keeps the reported error stable when several keys are bad.
	for _, key := range sortedRuleKeys(fragment.Rules) {
		rk, err := values.NewRuleKey(key)
		if err != nil {
			return fmt.Errorf("fragment %s: %w", fragment.Label(), err)
		}
		if !rk.IsBuiltin() && !declared[rk.Namespace()] {
			return &entities.UnknownPluginError{
				RuleKey:  key,
				Plugin:   rk.Namespace(),
				Fragment: fragment.Label(),
			}
		}

		setting := fragment.Rules[key]
		if setting == nil {
			// Unset removes the key; it does not mean off.
			delete(result.Rules, key)
			continue
		}
		result.Rules[key] = CopyRuleSetting(*setting)
	}

	result.Fragments = append(result.Fragments, fragment.Label())
	return nil
}

// mergeEnv merges env flags with overlay winning.
func (m *ProfileMerger) mergeEnv(base, overlay map[string]bool) map[string]bool {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]bool, len(overlay))
	}
	for k, v := range overlay {
		base[k] = v
	}
	return base
}

// mergeParser merges parser settings: non-empty overlay fields win.
func (m *ProfileMerger) mergeParser(base, overlay entities.ParserSettings) entities.ParserSettings {
	if overlay.Parser != "" {
		base.Parser = overlay.Parser
	}
	if overlay.EcmaVersion != "" {
		base.EcmaVersion = overlay.EcmaVersion
	}
	if overlay.SourceType != "" {
		base.SourceType = overlay.SourceType
	}
	base.EcmaFeatures = m.mergeEnv(base.EcmaFeatures, overlay.EcmaFeatures)
	return base
}

// mergeSettings performs a shallow merge of settings with overlay winning.
func (m *ProfileMerger) mergeSettings(base, overlay map[string]interface{}) map[string]interface{} {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]interface{}, len(overlay))
	}
	for k, v := range overlay {
		base[k] = copyValue(v) // Overlay wins on conflict
	}
	return base
}

// mergeStringSliceDedup concatenates two slices and deduplicates, preserving order.
func mergeStringSliceDedup(base, overlay []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(base)+len(overlay))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range overlay {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func sortedRuleKeys(rules map[string]*entities.RuleSetting) []string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toSet converts a slice to a map (set)
func toSet(slice []string) map[string]bool {
	s := make(map[string]bool, len(slice))
	for _, item := range slice {
		s[item] = true
	}
	return s
}
