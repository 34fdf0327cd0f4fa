// Package config provides infrastructure for loading profiles and override
// fragments. It handles YAML/JSON parsing, file I/O, include chains, and the
// embedded built-in profiles.
package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// parserOptionsDocument mirrors the engine's parserOptions block.
type parserOptionsDocument struct {
	EcmaVersion  interface{}     `yaml:"ecmaVersion"`
	EcmaFeatures map[string]bool `yaml:"ecmaFeatures"`
	SourceType   string          `yaml:"sourceType"`
}

type compatibilityDocument struct {
	Features    []string `yaml:"features"`
	SourceTypes []string `yaml:"sourceTypes"`
}

// profileDocument is the on-disk shape of a base profile.
type profileDocument struct {
	Env           map[string]bool                  `yaml:"env"`
	Settings      map[string]interface{}           `yaml:"settings"`
	Rules         map[string]interface{}           `yaml:"rules"`
	Compatibility map[string]compatibilityDocument `yaml:"compatibility"`
	ParserOptions parserOptionsDocument            `yaml:"parserOptions"`
	Name          string                           `yaml:"name"`
	Version       string                           `yaml:"version"`
	Description   string                           `yaml:"description"`
	Parser        string                           `yaml:"parser"`
	Extends       []string                         `yaml:"extends"`
	Plugins       []string                         `yaml:"plugins"`
	Root          bool                             `yaml:"root"`
}

// fragmentDocument is the on-disk shape of an override fragment.
// A rule mapped to null is an unset entry.
type fragmentDocument struct {
	Env           map[string]bool        `yaml:"env"`
	Settings      map[string]interface{} `yaml:"settings"`
	Rules         map[string]interface{} `yaml:"rules"`
	ParserOptions parserOptionsDocument  `yaml:"parserOptions"`
	Name          string                 `yaml:"name"`
	Requires      string                 `yaml:"requires"`
	Parser        string                 `yaml:"parser"`
	Include       []string               `yaml:"include"`
	Extends       []string               `yaml:"extends"`
	Plugins       []string               `yaml:"plugins"`
}

func (d *profileDocument) toEntity() (*entities.Profile, error) {
	parser, err := toParserSettings(d.Parser, d.ParserOptions)
	if err != nil {
		return nil, err
	}

	rules := make(map[string]entities.RuleSetting, len(d.Rules))
	for _, key := range sortedDocKeys(d.Rules) {
		setting, err := entities.ParseRuleSetting(d.Rules[key])
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", key, err)
		}
		rules[key] = setting
	}

	return &entities.Profile{
		Name:          d.Name,
		Version:       d.Version,
		Description:   d.Description,
		Root:          d.Root,
		Extends:       d.Extends,
		Env:           d.Env,
		Parser:        parser,
		Plugins:       d.Plugins,
		Settings:      d.Settings,
		Rules:         rules,
		Compatibility: toCompatibility(d.Compatibility),
	}, nil
}

func (d *fragmentDocument) toEntity(source string) (*entities.OverrideFragment, error) {
	parser, err := toParserSettings(d.Parser, d.ParserOptions)
	if err != nil {
		return nil, err
	}

	var rules map[string]*entities.RuleSetting
	if d.Rules != nil {
		rules = make(map[string]*entities.RuleSetting, len(d.Rules))
	}
	for _, key := range sortedDocKeys(d.Rules) {
		raw := d.Rules[key]
		if raw == nil {
			rules[key] = nil
			continue
		}
		setting, err := entities.ParseRuleSetting(raw)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", key, err)
		}
		rules[key] = &setting
	}

	return &entities.OverrideFragment{
		Name:     d.Name,
		Source:   source,
		Include:  d.Include,
		Requires: d.Requires,
		Extends:  d.Extends,
		Env:      d.Env,
		Parser:   parser,
		Plugins:  d.Plugins,
		Settings: d.Settings,
		Rules:    rules,
	}, nil
}

func toParserSettings(parser string, opts parserOptionsDocument) (entities.ParserSettings, error) {
	version, err := ecmaVersionString(opts.EcmaVersion)
	if err != nil {
		return entities.ParserSettings{}, err
	}
	return entities.ParserSettings{
		Parser:       parser,
		EcmaVersion:  version,
		SourceType:   opts.SourceType,
		EcmaFeatures: opts.EcmaFeatures,
	}, nil
}

// ecmaVersionString accepts a year or edition number, or "latest".
func ecmaVersionString(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		if v == "latest" {
			return v, nil
		}
		if _, err := strconv.Atoi(v); err != nil {
			return "", fmt.Errorf("ecmaVersion %q must be a number or \"latest\"", v)
		}
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if v != float64(int64(v)) {
			return "", fmt.Errorf("ecmaVersion %v must be an integer", v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("ecmaVersion has unsupported type %T", raw)
	}
}

func toCompatibility(docs map[string]compatibilityDocument) entities.CompatibilityTable {
	if docs == nil {
		return nil
	}
	table := make(entities.CompatibilityTable, len(docs))
	for parser, doc := range docs {
		table[parser] = entities.ParserCapabilities{
			Features:    doc.Features,
			SourceTypes: doc.SourceTypes,
		}
	}
	return table
}

func sortedDocKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
