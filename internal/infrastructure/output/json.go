package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// JSONFormatter writes the resolved configuration in the engine's JSON
// schema, or a validation report. Map keys are emitted sorted, so identical
// configurations serialise to identical bytes.
type JSONFormatter struct {
	writer     io.Writer
	indent     bool
	violations bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, indent, violations bool) *JSONFormatter {
	return &JSONFormatter{
		writer:     w,
		indent:     indent,
		violations: violations,
	}
}

// Format writes the response as JSON.
func (f *JSONFormatter) Format(resp *dto.ResolveResponse) error {
	if f.violations {
		return f.write(newValidationReport(resp))
	}
	if resp.Config == nil {
		return fmt.Errorf("response has no resolved config")
	}
	return f.write(resp.Config.ToEngineConfig())
}

// FormatRules writes a rule listing as JSON.
func (f *JSONFormatter) FormatRules(rules []entities.RuleView) error {
	return f.write(newRuleRows(rules))
}

func (f *JSONFormatter) write(v interface{}) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = f.writer.Write(data)
	if err != nil {
		return err
	}

	// Add newline for better terminal output
	_, err = f.writer.Write([]byte("\n"))
	return err
}
