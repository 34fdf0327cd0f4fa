package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommonOptions contains flags shared across resolving commands.
type CommonOptions struct {
	// Output
	Format     string
	OutputFile string

	// Resolution
	Fragments []string
	Timeout   time.Duration

	// Flags (bools grouped for alignment)
	NoColor bool
	NoCache bool
	Quiet   bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions(format string) CommonOptions {
	return CommonOptions{
		Timeout: 30 * time.Second,
		Format:  format,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command, formats []string) {
	// Resolution
	cmd.Flags().StringArrayVarP(&opts.Fragments, "fragment", "f", nil,
		"Override fragment to apply (repeatable, applied in order)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the whole resolution (0 to disable)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false,
		"Bypass the resolution cache")

	// Output
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Quiet output (exit status only)")
}

// ApplyConfig fills options the user did not set on the command line from
// the config file and environment.
func (opts *CommonOptions) ApplyConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("format") && viper.IsSet("format") {
		opts.Format = viper.GetString("format")
	}
	if !cmd.Flags().Changed("fragment") && viper.IsSet("fragments") {
		opts.Fragments = viper.GetStringSlice("fragments")
	}
	if !cmd.Flags().Changed("no-color") && viper.IsSet("no_color") {
		opts.NoColor = viper.GetBool("no_color")
	}
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options against the formats a command supports.
func (opts *CommonOptions) ValidateFlags(formats []string) error {
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(formats, ", "))
	}
	if opts.Quiet && opts.OutputFile != "" {
		return fmt.Errorf("--quiet and --output are mutually exclusive")
	}
	return nil
}

// OpenOutput returns the writer for command output and a close function.
// Quiet mode discards output.
func (opts *CommonOptions) OpenOutput(stdout io.Writer) (io.Writer, func() error, error) {
	if opts.Quiet {
		return io.Discard, func() error { return nil }, nil
	}
	if opts.OutputFile == "" {
		return stdout, func() error { return nil }, nil
	}

	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(opts.OutputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}

// SourcePath is the file reported as the location of violations: the last
// applied fragment, which is where a fix usually belongs.
func (opts *CommonOptions) SourcePath() string {
	if len(opts.Fragments) == 0 {
		return ""
	}
	return opts.Fragments[len(opts.Fragments)-1]
}
