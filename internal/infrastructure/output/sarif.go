package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/version"
)

// SARIFFormatter formats validation results as SARIF 2.1.0 JSON.
// Each violation kind becomes a SARIF rule and each violation a result.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, ".lintcfg/team.yaml")
//	if err := formatter.Format(resp); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer     io.Writer
	sourcePath string
}

// NewSARIFFormatter creates a new SARIF formatter.
// sourcePath, when set, is reported as the location of every result.
func NewSARIFFormatter(writer io.Writer, sourcePath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:     writer,
		sourcePath: sourcePath,
	}
}

// Format writes the validation result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(resp *dto.ResolveResponse) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("lintcfg", "https://github.com/kinal-dev/lintcfg")
	info := version.Get()
	run.Tool.Driver.Version = ptrString(info.Version)
	if v := info.Semver(); v != nil {
		run.Tool.Driver.SemanticVersion = ptrString(v.String())
	}
	run.Tool.Driver.Organization = ptrString("kinal-dev")

	mapper := newSARIFMapper(resp, f.sourcePath)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}
