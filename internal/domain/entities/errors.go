package entities

import (
	"fmt"
	"strings"
)

// DuplicateProfileError indicates a profile name was registered twice.
type DuplicateProfileError struct {
	Name string
}

func (e *DuplicateProfileError) Error() string {
	return fmt.Sprintf("profile already registered: %s", e.Name)
}

// UnknownProfileError indicates a lookup for a profile that was never registered.
type UnknownProfileError struct {
	Name      string
	Available []string
}

func (e *UnknownProfileError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown profile: %s", e.Name)
	}
	return fmt.Sprintf("unknown profile: %s (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UnknownPluginError indicates an override references a rule whose plugin
// was not declared by the base profile or any fragment applied so far.
type UnknownPluginError struct {
	RuleKey  string
	Plugin   string
	Fragment string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("fragment %s: rule %s references undeclared plugin %q", e.Fragment, e.RuleKey, e.Plugin)
}

// ViolationKind classifies a validation finding.
type ViolationKind string

const (
	ViolationUndeclaredPlugin    ViolationKind = "undeclared-plugin"
	ViolationInvalidSeverity     ViolationKind = "invalid-severity"
	ViolationInvalidRuleKey      ViolationKind = "invalid-rule-key"
	ViolationParserCompatibility ViolationKind = "parser-compatibility"
	ViolationRuleOptions         ViolationKind = "rule-options"
	ViolationHardcodedSecret     ViolationKind = "hardcoded-secret"
)

// Violation is one structured validation finding.
// Subject is the rule key, or a dotted field path for non-rule findings.
type Violation struct {
	Subject string        `json:"subject" yaml:"subject"`
	Kind    ViolationKind `json:"kind" yaml:"kind"`
	Message string        `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Subject, v.Kind, v.Message)
}

// ValidationError carries every violation found in a resolved configuration.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("configuration validation failed (%d violations):\n  - %s",
		len(e.Violations), strings.Join(lines, "\n  - "))
}
