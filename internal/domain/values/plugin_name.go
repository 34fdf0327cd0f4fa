package values

import (
	"fmt"
	"strings"
)

const pluginPackagePrefix = "eslint-plugin"

// PluginName represents a validated, normalized lint plugin identifier.
// Package names are reduced to the short form used in rule keys:
//
//	eslint-plugin-react             -> react
//	@typescript-eslint/eslint-plugin -> @typescript-eslint
//	@scope/eslint-plugin-foo        -> @scope/foo
type PluginName struct {
	value string
}

// NewPluginName creates a PluginName with validation and normalization.
func NewPluginName(name string) (PluginName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PluginName{}, fmt.Errorf("plugin name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return PluginName{}, fmt.Errorf("plugin name %q cannot contain whitespace", name)
	}

	normalized := normalizePluginName(name)
	if normalized == "" || normalized == "@" || strings.HasSuffix(normalized, "/") {
		return PluginName{}, fmt.Errorf("plugin name %q is malformed", name)
	}
	return PluginName{value: normalized}, nil
}

// MustNewPluginName creates a PluginName or panics
func MustNewPluginName(name string) PluginName {
	pn, err := NewPluginName(name)
	if err != nil {
		panic(err)
	}
	return pn
}

func normalizePluginName(name string) string {
	if strings.HasPrefix(name, "@") {
		scope, rest, found := strings.Cut(name, "/")
		if !found {
			return name
		}
		switch {
		case rest == pluginPackagePrefix:
			return scope
		case strings.HasPrefix(rest, pluginPackagePrefix+"-"):
			return scope + "/" + strings.TrimPrefix(rest, pluginPackagePrefix+"-")
		default:
			return name
		}
	}
	return strings.TrimPrefix(name, pluginPackagePrefix+"-")
}

// String returns the string representation
func (p PluginName) String() string {
	return p.value
}

// IsEmpty returns true if this is the zero value
func (p PluginName) IsEmpty() bool {
	return p.value == ""
}

// Equals checks if two plugin names are equal
func (p PluginName) Equals(other PluginName) bool {
	return p.value == other.value
}

// MarshalJSON implements json.Marshaler
func (p PluginName) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PluginName) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid plugin name JSON")
	}
	s = s[1 : len(s)-1]

	name, err := NewPluginName(s)
	if err != nil {
		return err
	}
	*p = name
	return nil
}

// ImpliedPlugin returns the plugin loaded by an extends entry of the form
// "plugin:<name>/<config>". The boolean is false for other entries.
func ImpliedPlugin(extendsEntry string) (PluginName, bool) {
	ref, ok := strings.CutPrefix(extendsEntry, "plugin:")
	if !ok {
		return PluginName{}, false
	}

	// The config name follows the last slash.
	idx := strings.LastIndex(ref, "/")
	if idx <= 0 {
		return PluginName{}, false
	}
	name, err := NewPluginName(ref[:idx])
	if err != nil {
		return PluginName{}, false
	}
	return name, true
}
