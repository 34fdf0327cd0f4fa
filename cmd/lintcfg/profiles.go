package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// profileSummary is the machine-readable shape of one registered profile.
type profileSummary struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Plugins     []string `json:"plugins,omitempty"`
	Rules       int      `json:"rules"`
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect registered base profiles",
}

func init() {
	profilesCmd.AddCommand(newProfilesListCmd())
	profilesCmd.AddCommand(newProfilesShowCmd())
	rootCmd.AddCommand(profilesCmd)
}

func newProfilesListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered base profiles",
		Long: `List the built-in profiles plus any loaded from --profile-dir,
sorted by name.`,
		Example: `  lintcfg profiles list
  lintcfg profiles list --profile-dir ./profiles --format json`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			summaries, err := profileSummaries(ctx)
			if err != nil {
				return err
			}
			return writeProfileSummaries(cmd.OutOrStdout(), summaries, format)
		}),
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")

	return cmd
}

func newProfilesShowCmd() *cobra.Command {
	opts := &ResolveOptions{CommonOptions: DefaultCommonOptions("table")}

	cmd := &cobra.Command{
		Use:     "show <profile>",
		Short:   "Show a base profile resolved without overrides",
		Example: `  lintcfg profiles show react-typescript`,
		Args:    cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			opts.Fragments = nil
			return runResolve(ctx, opts, args, cmd.OutOrStdout())
		}),
	}

	cmd.Flags().StringVar(&opts.Format, "format", opts.Format, "Output format: "+strings.Join(resolveFormats, ", "))
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored table output")

	return cmd
}

func profileSummaries(ctx *CommandContext) ([]profileSummary, error) {
	registry := ctx.Container.Registry()

	summaries := make([]profileSummary, 0, registry.Len())
	for _, name := range registry.Names() {
		profile, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summarizeProfile(profile))
	}
	return summaries, nil
}

func summarizeProfile(p *entities.Profile) profileSummary {
	return profileSummary{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Plugins:     p.DeclaredPlugins(),
		Rules:       p.RuleCount(),
	}
}

func writeProfileSummaries(w io.Writer, summaries []profileSummary, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "table":
	default:
		return fmt.Errorf("invalid format: %s (valid: table, json)", format)
	}

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No profiles registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tVERSION\tPLUGINS\tRULES\tDESCRIPTION"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range summaries {
		version := s.Version
		if version == "" {
			version = "-"
		}
		plugins := strings.Join(s.Plugins, ",")
		if plugins == "" {
			plugins = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.Name,
			version,
			plugins,
			s.Rules,
			s.Description,
		); err != nil {
			return fmt.Errorf("failed to write profile info: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
