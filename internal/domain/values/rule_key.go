package values

import (
	"fmt"
	"strings"
)

// RuleKey identifies a single rule checked by the lint engine.
// The namespace prefix names the plugin that owns the rule; keys without a
// prefix belong to the engine's built-in rules.
type RuleKey struct {
	value     string
	namespace string
}

// NewRuleKey creates a RuleKey and splits off its plugin namespace.
//
//	no-console                    -> built-in
//	react/prop-types              -> react
//	@typescript-eslint/no-shadow  -> @typescript-eslint
//	@scope/plugin/rule            -> @scope/plugin
func NewRuleKey(key string) (RuleKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return RuleKey{}, fmt.Errorf("rule key cannot be empty")
	}
	if strings.ContainsAny(key, " \t\n") {
		return RuleKey{}, fmt.Errorf("rule key %q cannot contain whitespace", key)
	}
	if strings.HasSuffix(key, "/") || strings.HasPrefix(key, "/") {
		return RuleKey{}, fmt.Errorf("rule key %q is malformed", key)
	}

	var namespace string
	if strings.HasPrefix(key, "@") {
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			return RuleKey{}, fmt.Errorf("scoped rule key %q has no rule name", key)
		}
		namespace = key[:idx]
	} else if ns, _, found := strings.Cut(key, "/"); found {
		namespace = ns
	}

	return RuleKey{value: key, namespace: namespace}, nil
}

// MustNewRuleKey creates a RuleKey or panics
func MustNewRuleKey(key string) RuleKey {
	rk, err := NewRuleKey(key)
	if err != nil {
		panic(err)
	}
	return rk
}

// String returns the full key
func (k RuleKey) String() string {
	return k.value
}

// Namespace returns the owning plugin name, or "" for built-in rules.
func (k RuleKey) Namespace() string {
	return k.namespace
}

// IsBuiltin returns true for rules without a plugin namespace.
func (k RuleKey) IsBuiltin() bool {
	return k.namespace == ""
}

// Name returns the rule name without its namespace.
func (k RuleKey) Name() string {
	if k.namespace == "" {
		return k.value
	}
	return k.value[len(k.namespace)+1:]
}
