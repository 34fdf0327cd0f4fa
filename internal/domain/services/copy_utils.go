// Package services contains domain services for the lintcfg domain model.
// These are stateless services that encapsulate business logic.
package services

import (
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// ===== DEEP COPY UTILITIES =====
//
// These functions provide deep copying of profile-related structures.
// They ensure immutability by creating independent copies that don't share references.
// Used by Registry and ProfileMerger.

// DeepCopyProfile creates a complete deep copy of a profile.
func DeepCopyProfile(original *entities.Profile) *entities.Profile {
	if original == nil {
		return nil
	}

	return &entities.Profile{
		Name:          original.Name,
		Version:       original.Version,
		Description:   original.Description,
		Root:          original.Root,
		Extends:       CopyStringSlice(original.Extends),
		Env:           CopyBoolMap(original.Env),
		Parser:        CopyParser(original.Parser),
		Plugins:       CopyStringSlice(original.Plugins),
		Settings:      CopySettings(original.Settings),
		Rules:         CopyRules(original.Rules),
		Compatibility: CopyCompatibility(original.Compatibility),
	}
}

// DeepCopyResolvedConfig creates a complete deep copy of a resolved config.
func DeepCopyResolvedConfig(original *entities.ResolvedConfig) *entities.ResolvedConfig {
	if original == nil {
		return nil
	}

	return &entities.ResolvedConfig{
		ProfileName:    original.ProfileName,
		ProfileVersion: original.ProfileVersion,
		Fragments:      CopyStringSlice(original.Fragments),
		Root:           original.Root,
		Env:            CopyBoolMap(original.Env),
		Extends:        CopyStringSlice(original.Extends),
		Parser:         CopyParser(original.Parser),
		Plugins:        CopyStringSlice(original.Plugins),
		Settings:       CopySettings(original.Settings),
		Rules:          CopyRules(original.Rules),
		Compatibility:  CopyCompatibility(original.Compatibility),
	}
}

// CopyStringSlice creates a deep copy of a string slice.
func CopyStringSlice(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// CopyBoolMap creates a copy of a flag map.
func CopyBoolMap(src map[string]bool) map[string]bool {
	if src == nil {
		return nil
	}
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// CopyParser creates a deep copy of parser settings.
func CopyParser(src entities.ParserSettings) entities.ParserSettings {
	return entities.ParserSettings{
		Parser:       src.Parser,
		EcmaVersion:  src.EcmaVersion,
		SourceType:   src.SourceType,
		EcmaFeatures: CopyBoolMap(src.EcmaFeatures),
	}
}

// CopySettings creates a deep copy of a settings block.
// Nested maps and lists decoded from YAML or JSON are copied recursively;
// scalars are immutable and shared.
func CopySettings(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CopySettings(t)
	case []interface{}:
		return copyList(t)
	case []string:
		return CopyStringSlice(t)
	case map[string]bool:
		return CopyBoolMap(t)
	default:
		return v
	}
}

func copyList(src []interface{}) []interface{} {
	if src == nil {
		return nil
	}
	dst := make([]interface{}, len(src))
	for i, v := range src {
		dst[i] = copyValue(v)
	}
	return dst
}

// CopyRuleSetting creates a deep copy of one rule setting.
func CopyRuleSetting(src entities.RuleSetting) entities.RuleSetting {
	return entities.RuleSetting{
		Severity: src.Severity,
		Options:  copyList(src.Options),
	}
}

// CopyRules creates a deep copy of a rules mapping.
func CopyRules(src map[string]entities.RuleSetting) map[string]entities.RuleSetting {
	if src == nil {
		return nil
	}
	dst := make(map[string]entities.RuleSetting, len(src))
	for k, v := range src {
		dst[k] = CopyRuleSetting(v)
	}
	return dst
}

// CopyCompatibility creates a deep copy of a compatibility table.
func CopyCompatibility(src entities.CompatibilityTable) entities.CompatibilityTable {
	if src == nil {
		return nil
	}
	dst := make(entities.CompatibilityTable, len(src))
	for parser, caps := range src {
		dst[parser] = entities.ParserCapabilities{
			Features:    CopyStringSlice(caps.Features),
			SourceTypes: CopyStringSlice(caps.SourceTypes),
		}
	}
	return dst
}
