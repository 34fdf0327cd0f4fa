package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// violationKindDescriptions documents each SARIF rule (violation kind).
var violationKindDescriptions = map[entities.ViolationKind]string{
	entities.ViolationUndeclaredPlugin:    "A rule belongs to a plugin namespace that is not declared.",
	entities.ViolationInvalidSeverity:     "A rule severity is not one of off, warn, error.",
	entities.ViolationInvalidRuleKey:      "A rule key is malformed.",
	entities.ViolationParserCompatibility: "A parser option is not supported by the configured parser.",
	entities.ViolationRuleOptions:         "A rule options payload does not match the rule's schema.",
	entities.ViolationHardcodedSecret:     "A setting or rule option contains what looks like a credential.",
}

type sarifMapper struct {
	resp       *dto.ResolveResponse
	sourcePath string
	cwd        string // Current working directory
}

func newSARIFMapper(resp *dto.ResolveResponse, sourcePath string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		resp:       resp,
		sourcePath: sourcePath,
		cwd:        cwd,
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
}

// addRules declares one SARIF rule per violation kind that occurs, sorted.
func (m *sarifMapper) addRules(run *sarif.Run) {
	seen := make(map[entities.ViolationKind]bool)
	var kinds []string
	for _, v := range m.resp.Violations {
		if !seen[v.Kind] {
			seen[v.Kind] = true
			kinds = append(kinds, string(v.Kind))
		}
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		rule := sarif.NewReportingDescriptor().WithID(kind)
		rule.WithName(kind)

		desc := violationKindDescriptions[entities.ViolationKind(kind)]
		if desc == "" {
			desc = kind
		}
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &desc,
		})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: "error",
		})

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts violations to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, v := range m.resp.Violations {
		result := sarif.NewRuleResult(string(v.Kind))
		result.Level = "error"
		result.Kind = "fail"
		result.Message = sarif.NewTextMessage(v.Subject + ": " + v.Message)

		if m.sourcePath != "" {
			pLoc := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.sourcePath)))
			result.Locations = []*sarif.Location{sarif.NewLocation().WithPhysicalLocation(pLoc)}
		}

		props := sarif.NewPropertyBag()
		props.Add("subject", v.Subject)
		result.WithProperties(props)

		run.AddResult(result)
	}
}

// addArtifacts registers the source file, if any.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	if m.sourcePath == "" {
		return
	}
	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.sourcePath)))
	run.AddArtifact(artifact)
}

// addInvocation adds resolution metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	invocation.ExecutionSuccessful = ptrBool(true)

	processed := m.resp.Metadata.ProcessedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.EndTimeUtc = &processed

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	if cfg := m.resp.Config; cfg != nil {
		props.Add("profileName", cfg.ProfileName)
		props.Add("profileVersion", cfg.ProfileVersion)
		props.Add("fragments", cfg.Fragments)
	}
	props.Add("requestId", m.resp.Metadata.RequestID)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	// Try to make relative to CWD
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

func ptrBool(b bool) *bool {
	return &b
}
