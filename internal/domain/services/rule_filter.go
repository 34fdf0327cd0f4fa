package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// RuleEnv defines the variables available during filter expression evaluation.
type RuleEnv struct {
	Key        string `expr:"key"`
	Plugin     string `expr:"plugin"`
	Severity   string `expr:"severity"`
	Level      int    `expr:"level"`
	Builtin    bool   `expr:"builtin"`
	HasOptions bool   `expr:"has_options"`
}

// RuleFilter selects resolved rules with an expr program, e.g.
//
//	severity == 'error' && plugin == 'react'
//	level >= 1 && !builtin
type RuleFilter struct {
	program *vm.Program
}

// CompileRuleFilter compiles a filter expression. An empty expression
// selects every rule.
func CompileRuleFilter(expression string) (*RuleFilter, error) {
	if expression == "" {
		return &RuleFilter{}, nil
	}

	program, err := expr.Compile(expression, expr.Env(RuleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &RuleFilter{program: program}, nil
}

// Matches evaluates the filter against one rule.
func (f *RuleFilter) Matches(rule entities.RuleView) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	env := RuleEnv{
		Key:        rule.Key,
		Plugin:     rule.Plugin,
		Severity:   rule.Severity.String(),
		Level:      rule.Severity.Level(),
		Builtin:    rule.Plugin == "",
		HasOptions: len(rule.Options) > 0,
	}

	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter expression error on %s: %w", rule.Key, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression did not return boolean: %v", output)
	}
	return result, nil
}

// Select returns the rules of cfg matching the filter, sorted by key.
func (f *RuleFilter) Select(cfg *entities.ResolvedConfig) ([]entities.RuleView, error) {
	var selected []entities.RuleView
	for _, view := range cfg.RuleViews() {
		ok, err := f.Matches(view)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, view)
		}
	}
	return selected, nil
}
