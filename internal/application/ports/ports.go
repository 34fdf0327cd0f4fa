// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// ProfileRegistry provides base profiles by name.
// Implemented by the domain registry.
type ProfileRegistry interface {
	Get(name string) (*entities.Profile, error)
	Names() []string
}

// FragmentLoader loads override fragments from storage.
type FragmentLoader interface {
	// LoadFragments loads the fragments at paths in order. Fragments listed
	// in an include section are expanded before the including fragment.
	LoadFragments(ctx context.Context, paths []string) ([]*entities.OverrideFragment, error)
}

// ConfigValidator checks a resolved configuration for internal consistency.
type ConfigValidator interface {
	Violations(cfg *entities.ResolvedConfig) []entities.Violation
}

// RuleSchemaValidator validates rule option payloads against JSON Schemas.
type RuleSchemaValidator interface {
	ValidateRuleOptions(ctx context.Context, cfg *entities.ResolvedConfig) ([]entities.Violation, error)
}

// SecretScanner finds credentials committed in settings and rule options.
type SecretScanner interface {
	ScanConfig(cfg *entities.ResolvedConfig) []entities.Violation
}

// RuleSchemaProvider supplies the JSON Schema for a rule's options.
type RuleSchemaProvider interface {
	// GetRuleSchema returns the schema for a rule key.
	// Returns nil if the rule has no schema.
	GetRuleSchema(ctx context.Context, ruleKey string) ([]byte, error)
}

// FormatterOptions configures output formatters.
type FormatterOptions struct {
	// SourcePath is reported as the artifact location of violations (SARIF).
	SourcePath string

	// Indent pretty-prints JSON output.
	Indent bool

	// Violations selects the validation report instead of the resolved config.
	Violations bool

	// NoColor disables ANSI colors in table output.
	NoColor bool
}

// OutputFormatter writes a resolution result.
type OutputFormatter interface {
	Format(resp *dto.ResolveResponse) error
}

// RuleListFormatter writes a selection of resolved rules.
type RuleListFormatter interface {
	FormatRules(rules []entities.RuleView) error
}
