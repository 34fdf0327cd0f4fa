package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kinal-dev/lintcfg/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
// The profile registry is built once here, before the handler runs.
//
// Usage:
//
//	cmd := &cobra.Command{
//	    Use: "list",
//	    RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
//	        return listProfiles(ctx, cmd.OutOrStdout())
//	    }),
//	}
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := newContainer(logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		if ctx.Context == nil {
			ctx.Context = context.Background()
		}

		return handler(ctx, cmd, args)
	}
}

// newContainer builds the container from viper-backed settings.
func newContainer(logger *slog.Logger) (*container.Container, error) {
	return container.New(container.Options{
		Logger:        logger,
		ProfileDir:    viper.GetString("profile_dir"),
		MaxConcurrent: viper.GetInt("max_concurrent"),
		DisableCache:  viper.GetBool("no_cache"),

		SecretPatterns: viper.GetStringSlice("secrets.patterns"),
		SecretPaths:    viper.GetStringSlice("secrets.paths"),
	})
}

// profileArg returns the profile named on the command line, falling back to
// the configured default profile.
func profileArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if name := viper.GetString("profile"); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("no profile given: pass a profile name or set profile in the config file (LINTCFG_PROFILE)")
}
