package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/application/ports"
)

var rulesFormats = []string{"table", "json", "yaml"}

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	CommonOptions
	Filter string
}

func init() {
	rootCmd.AddCommand(newRulesCmd())
}

func newRulesCmd() *cobra.Command {
	opts := &RulesOptions{CommonOptions: DefaultCommonOptions("table")}

	cmd := &cobra.Command{
		Use:   "rules [profile]",
		Short: "List the rules of a resolved configuration",
		Long: `Resolve a configuration and list its rules, sorted by key.

Filtering:
  --filter takes an expression over these fields:
    key          rule key, e.g. "react/prop-types"
    plugin       plugin namespace, empty for built-in rules
    severity     "off", "warn", or "error"
    level        0, 1, or 2
    builtin      true for rules without a plugin namespace
    has_options  true when an options payload is configured`,
		Example: `  lintcfg rules react-typescript
  lintcfg rules react-typescript --filter "severity == 'error' && plugin == 'react'"
  lintcfg rules airbnb-style -f team.yaml --filter "level >= 1 && builtin" --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			opts.ApplyConfig(cmd)
			return runRules(ctx, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd, rulesFormats)
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Filter expression (e.g. \"severity == 'error'\")")

	return cmd
}

func runRules(ctx *CommandContext, opts *RulesOptions, args []string, stdout io.Writer) error {
	if err := opts.ValidateFlags(rulesFormats); err != nil {
		return err
	}

	name, err := profileArg(args)
	if err != nil {
		return err
	}

	runCtx, cancel := opts.ApplyToContext(ctx.Context)
	defer cancel()

	resp, err := ctx.Container.ResolveUseCase().ListRules(runCtx, dto.ListRulesRequest{
		FilterExpression: opts.Filter,
		Resolve: dto.ResolveRequest{
			ProfileName:   name,
			FragmentPaths: opts.Fragments,
			Options:       dto.ResolveOptions{NoCache: opts.NoCache},
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
		Indent:  true,
		NoColor: opts.NoColor,
	})
	if err != nil {
		return err
	}

	lister, ok := formatter.(ports.RuleListFormatter)
	if !ok {
		return fmt.Errorf("format %s cannot list rules", opts.Format)
	}
	return lister.FormatRules(resp.Rules)
}
