package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// TableFormatter formats results as human-readable text.
type TableFormatter struct {
	writer      io.Writer
	violations  bool
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, violations bool) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		violations:  violations,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the response as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(resp *dto.ResolveResponse) error {
	cfg := resp.Config
	if cfg == nil {
		return fmt.Errorf("response has no resolved config")
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	if cfg.ProfileVersion != "" {
		fmt.Fprintf(f.writer, "Profile: %s (v%s)\n", f.colorize(cfg.ProfileName, colorBold), cfg.ProfileVersion)
	} else {
		fmt.Fprintf(f.writer, "Profile: %s\n", f.colorize(cfg.ProfileName, colorBold))
	}
	if len(cfg.Fragments) > 0 {
		fmt.Fprintf(f.writer, "Fragments: %s\n", strings.Join(cfg.Fragments, ", "))
	}
	if len(cfg.Plugins) > 0 {
		fmt.Fprintf(f.writer, "Plugins: %s\n", strings.Join(cfg.Plugins, ", "))
	}
	if cfg.Parser.Parser != "" {
		fmt.Fprintf(f.writer, "Parser: %s\n", cfg.Parser.Parser)
	}
	fmt.Fprintf(f.writer, "Duration: %s\n", resp.Metadata.Duration.Round(time.Microsecond))
	fmt.Fprintln(f.writer)

	if f.violations {
		f.formatViolations(resp.Violations)
		return nil
	}

	return f.FormatRules(cfg.RuleViews())
}

// FormatRules writes one row per rule: key, severity, options.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatRules(rules []entities.RuleView) error {
	if len(rules) == 0 {
		fmt.Fprintln(f.writer, "No rules configured.")
		return nil
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tOPTIONS")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Key, f.colorSeverity(r.Severity), formatOptions(r.Options))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, r := range rules {
		counts[r.Severity.String()]++
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "%d rules: %d error, %d warn, %d off\n",
		len(rules), counts["error"], counts["warn"], counts["off"])
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatViolations(violations []entities.Violation) {
	if len(violations) == 0 {
		fmt.Fprintln(f.writer, f.colorize("✓ configuration is valid", colorGreen))
		return
	}

	fmt.Fprintln(f.writer, f.colorize(fmt.Sprintf("✗ %d violations", len(violations)), colorRed))
	for _, v := range violations {
		fmt.Fprintf(f.writer, "  %s %s\n", f.colorize(v.Subject, colorBold), f.colorize("["+string(v.Kind)+"]", colorGray))
		fmt.Fprintf(f.writer, "    %s\n", v.Message)
	}
}

func (f *TableFormatter) colorSeverity(sev values.Severity) string {
	switch sev {
	case values.SevError:
		return f.colorize(sev.String(), colorRed)
	case values.SevWarn:
		return f.colorize(sev.String(), colorYellow)
	default:
		return f.colorize(sev.String(), colorGray)
	}
}

// formatOptions renders an options payload compactly for a single cell.
func formatOptions(options []interface{}) string {
	if len(options) == 0 {
		return "-"
	}
	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Sprintf("%v", options)
	}
	s := string(data)
	return s[1 : len(s)-1]
}
