package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Profile       string
	Name          string
	Output        string
	Disable       []string
	Plugins       []string
	NoInteractive bool
	Force         bool
}

// fragmentTemplate is the generated fragment file. Field order is the
// order written to disk.
type fragmentTemplate struct {
	Name     string                 `yaml:"name"`
	Requires string                 `yaml:"requires,omitempty"`
	Plugins  []string               `yaml:"plugins,omitempty"`
	Rules    map[string]interface{} `yaml:"rules,omitempty"`
}

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a team override fragment for a base profile",
		Long: `Generate an override fragment pinned to the current major version of
a base profile. Prompts for anything not given on the command line unless
--no-interactive is set.`,
		Example: `  lintcfg init
  lintcfg init --profile react-typescript --name web-team --disable no-console
  lintcfg init --profile recommended --no-interactive -o .lintcfg/team.yaml`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			return runInit(ctx, opts, cmd.OutOrStdout())
		}),
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "Base profile the fragment overrides")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Fragment name (default: team)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file path (default: .lintcfg/<name>.yaml)")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rules to switch off (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Plugins, "plugins", nil, "Additional plugins to declare (comma-separated)")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Disable interactive prompts")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runInit(ctx *CommandContext, opts *InitOptions, stdout io.Writer) error {
	registry := ctx.Container.Registry()

	if !opts.NoInteractive {
		if err := promptInit(opts, registry.Names()); err != nil {
			return err
		}
	}

	if opts.Profile == "" {
		return fmt.Errorf("--profile is required (available: %v)", registry.Names())
	}
	profile, err := registry.Get(opts.Profile)
	if err != nil {
		return err
	}

	if !opts.NoInteractive && len(opts.Disable) == 0 {
		if err := promptDisable(opts, profile); err != nil {
			return err
		}
	}

	if opts.Name == "" {
		opts.Name = "team"
	}
	if opts.Output == "" {
		opts.Output = filepath.Join(".lintcfg", opts.Name+".yaml")
	}

	doc, err := buildFragmentTemplate(profile, opts)
	if err != nil {
		return err
	}

	if err := writeFragment(opts.Output, doc, opts.Force); err != nil {
		return err
	}

	// The written file must load back cleanly
	if _, err := ctx.Container.FragmentLoader().LoadFragment(opts.Output); err != nil {
		return fmt.Errorf("generated fragment does not load: %w", err)
	}

	ctx.Logger.Info("fragment created", "path", opts.Output, "profile", profile.Name)
	_, err = fmt.Fprintf(stdout, "Created %s\n\nResolve it with:\n  lintcfg resolve %s -f %s\n",
		opts.Output, profile.Name, opts.Output)
	return err
}

func promptInit(opts *InitOptions, profiles []string) error {
	if opts.Profile == "" {
		options := make([]huh.Option[string], 0, len(profiles))
		for _, name := range profiles {
			options = append(options, huh.NewOption(name, name))
		}
		err := huh.NewSelect[string]().
			Title("Select base profile").
			Options(options...).
			Value(&opts.Profile).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.Name == "" {
		opts.Name = "team"
		err := huh.NewInput().
			Title("Fragment name").
			Value(&opts.Name).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("name cannot be empty")
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}
	}
	return nil
}

func promptDisable(opts *InitOptions, profile *entities.Profile) error {
	var options []huh.Option[string]
	for _, key := range slices.Sorted(maps.Keys(profile.Rules)) {
		setting := profile.Rules[key]
		if setting.Severity == values.SevOff {
			continue
		}
		options = append(options, huh.NewOption(key+" ("+setting.Severity.String()+")", key))
	}
	if len(options) == 0 {
		return nil
	}

	return huh.NewMultiSelect[string]().
		Title("Select rules to switch off").
		Options(options...).
		Value(&opts.Disable).
		Run()
}

// buildFragmentTemplate creates the fragment document for a profile.
// Fragments are pinned to the profile's major version.
func buildFragmentTemplate(profile *entities.Profile, opts *InitOptions) (*fragmentTemplate, error) {
	doc := &fragmentTemplate{
		Name:    opts.Name,
		Plugins: opts.Plugins,
	}

	if profile.Version != "" {
		v, err := semver.NewVersion(profile.Version)
		if err != nil {
			return nil, fmt.Errorf("profile %s has invalid version %q: %w", profile.Name, profile.Version, err)
		}
		doc.Requires = fmt.Sprintf("^%d.%d.0", v.Major(), v.Minor())
	}

	for _, key := range opts.Disable {
		if _, ok := profile.GetRule(key); !ok {
			return nil, fmt.Errorf("rule %s is not configured by profile %s", key, profile.Name)
		}
		if doc.Rules == nil {
			doc.Rules = make(map[string]interface{})
		}
		doc.Rules[key] = values.SevOff.String()
	}

	return doc, nil
}

func writeFragment(path string, doc *fragmentTemplate, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("encoding fragment: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
