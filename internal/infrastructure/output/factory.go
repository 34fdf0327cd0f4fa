// Package output provides formatters for resolved configurations and
// validation reports.
package output

import (
	"fmt"
	"io"

	"github.com/kinal-dev/lintcfg/internal/application/ports"
)

// FormatterFactory creates output formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(
	format string,
	writer io.Writer,
	options ports.FormatterOptions,
) (ports.OutputFormatter, error) {
	switch format {
	case "table":
		tf := NewTableFormatter(writer, options.Violations)
		tf.EnableColor = !options.NoColor
		return tf, nil
	case "json":
		return NewJSONFormatter(writer, options.Indent, options.Violations), nil
	case "yaml":
		return NewYAMLFormatter(writer, options.Violations), nil
	case "sarif":
		return NewSARIFFormatter(writer, options.SourcePath), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedFormats(),
		)
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "json", "yaml", "sarif"}
}
