package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/application/ports"
)

var validateFormats = []string{"table", "json", "yaml", "sarif"}

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	CommonOptions
	Schemas bool
	Secrets bool
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	opts := &ValidateOptions{CommonOptions: DefaultCommonOptions("table")}

	cmd := &cobra.Command{
		Use:   "validate [profile]",
		Short: "Validate a resolved configuration and report every violation",
		Long: `Resolve a base profile plus override fragments and report every
violation found in the result:

  undeclared-plugin      a rule's plugin namespace is not declared
  invalid-severity       a severity is not off, warn, or error
  invalid-rule-key       a rule key is malformed
  parser-compatibility   an ecmaFeature or sourceType the parser lacks
  rule-options           options that do not match the rule's schema
  hardcoded-secret       a credential in settings or rule options (--secrets)

Exits non-zero when any violation is found.`,
		Example: `  lintcfg validate react-typescript -f .lintcfg/team.yaml
  lintcfg validate react-typescript -f team.yaml --format sarif -o lintcfg.sarif`,
		Args: cobra.MaximumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			opts.ApplyConfig(cmd)
			return runValidate(ctx, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd, validateFormats)
	cmd.Flags().BoolVar(&opts.Schemas, "schemas", true, "Validate rule options against the bundled rule schemas")
	cmd.Flags().BoolVar(&opts.Secrets, "secrets", false, "Report credentials committed in settings and rule options")

	return cmd
}

func runValidate(ctx *CommandContext, opts *ValidateOptions, args []string, stdout io.Writer) error {
	if err := opts.ValidateFlags(validateFormats); err != nil {
		return err
	}

	name, err := profileArg(args)
	if err != nil {
		return err
	}

	runCtx, cancel := opts.ApplyToContext(ctx.Context)
	defer cancel()

	resp, err := ctx.Container.ResolveUseCase().Execute(runCtx, dto.ResolveRequest{
		ProfileName:   name,
		FragmentPaths: opts.Fragments,
		Options: dto.ResolveOptions{
			WithSchemas:       opts.Schemas,
			ScanSecrets:       opts.Secrets,
			CollectViolations: true,
			NoCache:           opts.NoCache,
		},
	})
	if err != nil {
		return err
	}

	w, closeOutput, err := opts.OpenOutput(stdout)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOutput() // Best-effort cleanup
	}()

	formatter, err := ctx.Container.FormatterFactory().Create(opts.Format, w, ports.FormatterOptions{
		SourcePath: opts.SourcePath(),
		Indent:     true,
		Violations: true,
		NoColor:    opts.NoColor,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(resp); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Return non-zero exit code if there were violations
	if !resp.IsValid() {
		return fmt.Errorf("validation failed: %d violations in %s", len(resp.Violations), name)
	}
	return nil
}
