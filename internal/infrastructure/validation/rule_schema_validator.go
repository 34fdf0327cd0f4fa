package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kinal-dev/lintcfg/internal/application/ports"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

var _ ports.RuleSchemaValidator = (*RuleSchemaValidator)(nil)

// RuleSchemaValidator validates each rule's options list against the JSON
// Schema its provider returns. Compiled schemas are cached per rule key,
// including the absence of a schema.
type RuleSchemaValidator struct {
	provider ports.RuleSchemaProvider
	compiled map[string]*jsonschema.Schema
	mu       sync.Mutex
}

// NewRuleSchemaValidator creates a validator backed by provider.
func NewRuleSchemaValidator(provider ports.RuleSchemaProvider) *RuleSchemaValidator {
	return &RuleSchemaValidator{
		provider: provider,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidateRuleOptions returns one violation per rule whose options do not
// satisfy its schema. Rules without options or without a schema are skipped.
// The returned error is reserved for schema loading problems.
func (v *RuleSchemaValidator) ValidateRuleOptions(ctx context.Context, cfg *entities.ResolvedConfig) ([]entities.Violation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("resolved config is nil")
	}

	var violations []entities.Violation
	for _, key := range cfg.RuleKeys() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		setting := cfg.Rules[key]
		if !setting.HasOptions() {
			continue
		}

		schema, err := v.schemaFor(ctx, key)
		if err != nil {
			return nil, err
		}
		if schema == nil {
			continue
		}

		instance, err := toJSONInstance(setting.Options)
		if err != nil {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationRuleOptions,
				Message: fmt.Sprintf("options are not JSON-compatible: %v", err),
			})
			continue
		}

		if err := schema.Validate(instance); err != nil {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationRuleOptions,
				Message: formatSchemaValidationError(err),
			})
		}
	}
	return violations, nil
}

// schemaFor returns the compiled schema for a rule, or nil if it has none.
func (v *RuleSchemaValidator) schemaFor(ctx context.Context, key string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.compiled[key]; ok {
		return schema, nil
	}

	schemaBytes, err := v.provider.GetRuleSchema(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema for rule %s: %w", key, err)
	}
	if len(schemaBytes) == 0 {
		v.compiled[key] = nil
		return nil, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for rule %s: %w", key, err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for rule %s: %w", key, err)
	}

	v.compiled[key] = schema
	return schema, nil
}

// toJSONInstance converts decoded YAML values into the JSON data model the
// schema library expects.
func toJSONInstance(options []interface{}) (interface{}, error) {
	data, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance interface{}
	if err := dec.Decode(&instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// formatSchemaValidationError flattens a schema validation error into one line.
func formatSchemaValidationError(err error) string {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}

	var messages []string

	// Only leaves carry the specific reason; parents repeat "doesn't validate".
	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(validationErr)

	if len(messages) == 0 {
		return "options do not match schema"
	}
	return strings.Join(messages, "; ")
}
