package services

import (
	"fmt"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// DefaultParser is the parser the engine uses when none is configured.
const DefaultParser = "espree"

// ConfigValidator inspects a resolved configuration for internal consistency.
// It never mutates its input and reports every violation it finds.
//
// Checks:
//   - every rule key is well formed and its plugin namespace is declared
//   - every severity is off, warn, or error
//   - enabled ecmaFeatures and sourceType are supported by the parser,
//     according to the compatibility table carried by the config
type ConfigValidator struct{}

// NewConfigValidator creates a new validator service.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate returns nil, or *entities.ValidationError listing all violations.
// A nil config is a caller error, not a violation.
func (v *ConfigValidator) Validate(cfg *entities.ResolvedConfig) error {
	if cfg == nil {
		return fmt.Errorf("cannot validate nil config")
	}

	violations := v.Violations(cfg)
	if len(violations) > 0 {
		return &entities.ValidationError{Violations: violations}
	}
	return nil
}

// Violations returns every violation found, ordered by check then subject.
// A nil config has none.
func (v *ConfigValidator) Violations(cfg *entities.ResolvedConfig) []entities.Violation {
	if cfg == nil {
		return nil
	}

	var violations []entities.Violation
	violations = append(violations, v.checkRules(cfg)...)
	violations = append(violations, v.checkParser(cfg)...)
	return violations
}

// checkRules validates rule keys, plugin declarations, and severities.
func (v *ConfigValidator) checkRules(cfg *entities.ResolvedConfig) []entities.Violation {
	declared := toSet(cfg.Plugins)

	var violations []entities.Violation
	for _, key := range cfg.RuleKeys() {
		rk, err := values.NewRuleKey(key)
		if err != nil {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationInvalidRuleKey,
				Message: err.Error(),
			})
			continue
		}

		if !rk.IsBuiltin() && !declared[rk.Namespace()] {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationUndeclaredPlugin,
				Message: fmt.Sprintf("plugin %q is not declared", rk.Namespace()),
			})
		}

		if sev := cfg.Rules[key].Severity; !sev.IsValid() {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationInvalidSeverity,
				Message: fmt.Sprintf("severity %q is not one of off, warn, error", sev.String()),
			})
		}
	}
	return violations
}

// checkParser validates parser options against the declared compatibility
// table. Parsers missing from the table are not checked.
func (v *ConfigValidator) checkParser(cfg *entities.ResolvedConfig) []entities.Violation {
	parser := cfg.Parser.Parser
	if parser == "" {
		parser = DefaultParser
	}

	caps, ok := cfg.Compatibility.Lookup(parser)
	if !ok {
		return nil
	}

	var violations []entities.Violation
	for _, feature := range cfg.Parser.EnabledFeatures() {
		if !caps.SupportsFeature(feature) {
			violations = append(violations, entities.Violation{
				Subject: "parserOptions.ecmaFeatures." + feature,
				Kind:    entities.ViolationParserCompatibility,
				Message: fmt.Sprintf("parser %s does not support %s", parser, feature),
			})
		}
	}

	if st := cfg.Parser.SourceType; st != "" && !caps.SupportsSourceType(st) {
		violations = append(violations, entities.Violation{
			Subject: "parserOptions.sourceType",
			Kind:    entities.ViolationParserCompatibility,
			Message: fmt.Sprintf("parser %s does not support sourceType %q", parser, st),
		})
	}
	return violations
}
