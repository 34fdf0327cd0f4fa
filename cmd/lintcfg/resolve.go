package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	"github.com/kinal-dev/lintcfg/internal/application/ports"
)

var resolveFormats = []string{"json", "yaml", "table"}

// ResolveOptions holds options for the resolve command.
type ResolveOptions struct {
	CommonOptions
	Schemas bool
	Compact bool
	Redact  bool
}

func init() {
	rootCmd.AddCommand(newResolveCmd())
}

func newResolveCmd() *cobra.Command {
	opts := &ResolveOptions{CommonOptions: DefaultCommonOptions("json")}

	cmd := &cobra.Command{
		Use:   "resolve [profile...]",
		Short: "Resolve a base profile plus override fragments",
		Long: `Resolve the configuration handed to the lint engine.

The base profile is looked up in the registry (built-in profiles plus
--profile-dir). Fragments given with --fragment are applied in order;
later fragments win. Several profiles may be resolved at once; they are
resolved in parallel and written in argument order.

Resolution fails on any validation violation. Use 'lintcfg validate' to
list violations instead.`,
		Example: `  lintcfg resolve react-typescript
  lintcfg resolve react-typescript -f .lintcfg/team.yaml -f .lintcfg/local.yaml
  lintcfg resolve recommended airbnb-style --format yaml`,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			opts.ApplyConfig(cmd)
			return runResolve(ctx, opts, args, cmd.OutOrStdout())
		}),
	}

	opts.RegisterFlags(cmd, resolveFormats)
	cmd.Flags().BoolVar(&opts.Schemas, "schemas", false, "Validate rule options against the bundled rule schemas")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Write JSON without indentation")
	cmd.Flags().BoolVar(&opts.Redact, "redact", false, "Mask credentials found in settings and rule options")

	return cmd
}

func runResolve(ctx *CommandContext, opts *ResolveOptions, args []string, stdout io.Writer) error {
	if err := opts.ValidateFlags(resolveFormats); err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		name, err := profileArg(nil)
		if err != nil {
			return err
		}
		names = []string{name}
	}

	reqs := make([]dto.ResolveRequest, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, dto.ResolveRequest{
			ProfileName:   name,
			FragmentPaths: opts.Fragments,
			Options: dto.ResolveOptions{
				WithSchemas: opts.Schemas,
				NoCache:     opts.NoCache,
			},
		})
	}

	runCtx, cancel := opts.ApplyToContext(ctx.Context)
	defer cancel()

	responses, err := ctx.Container.ResolveUseCase().ResolveAll(runCtx, reqs)
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
		Indent:  !opts.Compact,
		NoColor: opts.NoColor,
	})
	if err != nil {
		return err
	}

	for _, resp := range responses {
		if opts.Redact {
			resp.Config = ctx.Container.Redactor().RedactConfig(resp.Config)
		}
		ctx.Logger.Debug("writing resolved configuration",
			"profile", resp.Config.ProfileName,
			"request_id", resp.Metadata.RequestID,
			"duration", resp.Metadata.Duration)
		if err := formatter.Format(resp); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	}

	return nil
}
