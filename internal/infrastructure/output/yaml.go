package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// YAMLFormatter writes the resolved configuration, or a validation report, as YAML.
type YAMLFormatter struct {
	writer     io.Writer
	violations bool
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer, violations bool) *YAMLFormatter {
	return &YAMLFormatter{writer: w, violations: violations}
}

// Format writes the response as YAML.
func (f *YAMLFormatter) Format(resp *dto.ResolveResponse) error {
	if f.violations {
		return f.encode(newValidationReport(resp))
	}
	if resp.Config == nil {
		return fmt.Errorf("response has no resolved config")
	}
	return f.encode(resp.Config.ToEngineConfig())
}

// FormatRules writes a rule listing as YAML.
func (f *YAMLFormatter) FormatRules(rules []entities.RuleView) error {
	return f.encode(newRuleRows(rules))
}

func (f *YAMLFormatter) encode(v interface{}) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
