package output

import (
	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// validationReport is the machine-readable shape of a validate run.
type validationReport struct {
	Profile        string               `json:"profile" yaml:"profile"`
	ProfileVersion string               `json:"profileVersion,omitempty" yaml:"profileVersion,omitempty"`
	RequestID      string               `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Fragments      []string             `json:"fragments,omitempty" yaml:"fragments,omitempty"`
	Violations     []entities.Violation `json:"violations" yaml:"violations"`
	Valid          bool                 `json:"valid" yaml:"valid"`
}

func newValidationReport(resp *dto.ResolveResponse) validationReport {
	violations := resp.Violations
	if violations == nil {
		violations = []entities.Violation{}
	}

	report := validationReport{
		RequestID:  resp.Metadata.RequestID,
		Violations: violations,
		Valid:      resp.IsValid(),
	}
	if resp.Config != nil {
		report.Profile = resp.Config.ProfileName
		report.ProfileVersion = resp.Config.ProfileVersion
		report.Fragments = resp.Config.Fragments
	}
	return report
}

// ruleRow is the machine-readable shape of one listed rule.
type ruleRow struct {
	Key      string        `json:"key" yaml:"key"`
	Plugin   string        `json:"plugin,omitempty" yaml:"plugin,omitempty"`
	Severity string        `json:"severity" yaml:"severity"`
	Options  []interface{} `json:"options,omitempty" yaml:"options,omitempty"`
}

func newRuleRows(rules []entities.RuleView) []ruleRow {
	rows := make([]ruleRow, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, ruleRow{
			Key:      r.Key,
			Plugin:   r.Plugin,
			Severity: r.Severity.String(),
			Options:  r.Options,
		})
	}
	return rows
}
