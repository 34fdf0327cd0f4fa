package entities

import (
	"strconv"

	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// ResolvedConfig is the final, flattened configuration handed to the lint
// engine. It is produced by the merger and never mutated afterwards.
type ResolvedConfig struct {
	ProfileName    string
	ProfileVersion string
	Fragments      []string
	Root           bool
	Env            map[string]bool
	Extends        []string
	Parser         ParserSettings
	Plugins        []string
	Settings       map[string]interface{}
	Rules          map[string]RuleSetting
	Compatibility  CompatibilityTable
}

// EngineConfig is the serialised shape consumed by the external lint engine.
// Field names follow the engine's documented schema.
type EngineConfig struct {
	Root          bool                   `json:"root,omitempty" yaml:"root,omitempty"`
	Env           map[string]bool        `json:"env,omitempty" yaml:"env,omitempty"`
	Extends       []string               `json:"extends,omitempty" yaml:"extends,omitempty"`
	Parser        string                 `json:"parser,omitempty" yaml:"parser,omitempty"`
	ParserOptions map[string]interface{} `json:"parserOptions,omitempty" yaml:"parserOptions,omitempty"`
	Plugins       []string               `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Settings      map[string]interface{} `json:"settings,omitempty" yaml:"settings,omitempty"`
	Rules         map[string]interface{} `json:"rules" yaml:"rules"`
}

// HasPlugin reports whether the plugin namespace is declared.
func (c *ResolvedConfig) HasPlugin(name string) bool {
	return contains(c.Plugins, name)
}

// GetRule returns the setting for a rule key.
func (c *ResolvedConfig) GetRule(key string) (RuleSetting, bool) {
	r, ok := c.Rules[key]
	return r, ok
}

// RuleKeys returns all configured rule keys, sorted.
func (c *ResolvedConfig) RuleKeys() []string {
	return sortedKeys(c.Rules)
}

// RuleCount returns the number of configured rules.
func (c *ResolvedConfig) RuleCount() int {
	return len(c.Rules)
}

// RulesBySeverity counts rules per severity name.
func (c *ResolvedConfig) RulesBySeverity() map[string]int {
	counts := make(map[string]int, 3)
	for _, r := range c.Rules {
		counts[r.Severity.String()]++
	}
	return counts
}

// ToEngineConfig converts the resolved config into the engine schema.
func (c *ResolvedConfig) ToEngineConfig() *EngineConfig {
	rules := make(map[string]interface{}, len(c.Rules))
	for key, setting := range c.Rules {
		rules[key] = setting.EngineValue()
	}

	return &EngineConfig{
		Root:          c.Root,
		Env:           c.Env,
		Extends:       c.Extends,
		Parser:        c.Parser.Parser,
		ParserOptions: parserOptions(c.Parser),
		Plugins:       c.Plugins,
		Settings:      c.Settings,
		Rules:         rules,
	}
}

func parserOptions(p ParserSettings) map[string]interface{} {
	opts := make(map[string]interface{})
	if p.EcmaVersion != "" {
		// Numeric years are emitted as numbers; "latest" stays a string.
		if n, err := strconv.Atoi(p.EcmaVersion); err == nil {
			opts["ecmaVersion"] = n
		} else {
			opts["ecmaVersion"] = p.EcmaVersion
		}
	}
	if p.SourceType != "" {
		opts["sourceType"] = p.SourceType
	}
	if len(p.EcmaFeatures) > 0 {
		opts["ecmaFeatures"] = p.EcmaFeatures
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// RuleView is a flattened read-only view of one resolved rule.
type RuleView struct {
	Key      string
	Plugin   string
	Severity values.Severity
	Options  []interface{}
}

// RuleViews returns one view per rule, sorted by key.
func (c *ResolvedConfig) RuleViews() []RuleView {
	views := make([]RuleView, 0, len(c.Rules))
	for _, key := range c.RuleKeys() {
		setting := c.Rules[key]
		view := RuleView{Key: key, Severity: setting.Severity, Options: setting.Options}
		if rk, err := values.NewRuleKey(key); err == nil {
			view.Plugin = rk.Namespace()
		}
		views = append(views, view)
	}
	return views
}
