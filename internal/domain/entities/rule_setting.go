package entities

import (
	"encoding/json"
	"fmt"

	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// RuleSetting is the configured severity of a rule plus its option payload.
// Options are opaque to the resolver; they are handed to the rule as-is.
type RuleSetting struct {
	Severity values.Severity
	Options  []interface{}
}

// NewRuleSetting creates a RuleSetting with optional options.
func NewRuleSetting(sev values.Severity, options ...interface{}) RuleSetting {
	if len(options) == 0 {
		return RuleSetting{Severity: sev}
	}
	return RuleSetting{Severity: sev, Options: options}
}

// ParseRuleSetting converts the engine notation into a RuleSetting.
// Accepted forms:
//
//	"warn"
//	1
//	["error", {allow: [warn, error]}]
func ParseRuleSetting(raw interface{}) (RuleSetting, error) {
	switch v := raw.(type) {
	case nil:
		return RuleSetting{}, fmt.Errorf("rule setting cannot be null here")
	case []interface{}:
		if len(v) == 0 {
			return RuleSetting{}, fmt.Errorf("rule setting list cannot be empty")
		}
		sev, err := values.ParseSeverity(v[0])
		if err != nil {
			return RuleSetting{}, err
		}
		return NewRuleSetting(sev, v[1:]...), nil
	default:
		sev, err := values.ParseSeverity(v)
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Severity: sev}, nil
	}
}

// HasOptions returns true if an options payload is present.
func (r RuleSetting) HasOptions() bool {
	return len(r.Options) > 0
}

// EngineValue returns the value written into the rules mapping of the
// engine configuration: the bare severity, or a list when options exist.
func (r RuleSetting) EngineValue() interface{} {
	if !r.HasOptions() {
		return r.Severity.String()
	}
	out := make([]interface{}, 0, len(r.Options)+1)
	out = append(out, r.Severity.String())
	out = append(out, r.Options...)
	return out
}

// MarshalJSON implements json.Marshaler
func (r RuleSetting) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.EngineValue())
}

// UnmarshalJSON implements json.Unmarshaler
func (r *RuleSetting) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	setting, err := ParseRuleSetting(raw)
	if err != nil {
		return err
	}
	*r = setting
	return nil
}

// MarshalYAML implements the go-yaml InterfaceMarshaler.
func (r RuleSetting) MarshalYAML() (interface{}, error) {
	return r.EngineValue(), nil
}
