// Package container provides dependency injection for the application.
package container

import (
	"log/slog"

	"github.com/kinal-dev/lintcfg/internal/application/services"
	"github.com/kinal-dev/lintcfg/internal/domain/repositories"
	domainservices "github.com/kinal-dev/lintcfg/internal/domain/services"
	"github.com/kinal-dev/lintcfg/internal/infrastructure/config"
	"github.com/kinal-dev/lintcfg/internal/infrastructure/output"
	"github.com/kinal-dev/lintcfg/internal/infrastructure/persistence/memory"
	"github.com/kinal-dev/lintcfg/internal/infrastructure/redaction"
	"github.com/kinal-dev/lintcfg/internal/infrastructure/validation"
)

// Container holds all application dependencies.
type Container struct {
	registry         *domainservices.Registry
	fragmentLoader   *config.FragmentLoader
	resolveUseCase   *services.ResolveConfigUseCase
	formatterFactory *output.FormatterFactory
	resolutionCache  *memory.ResolutionRepository
	schemaProvider   *validation.EmbeddedSchemaProvider
	redactor         *redaction.Redactor
	logger           *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger

	// ProfileDir holds additional base profiles registered next to the
	// built-in ones. Empty means built-ins only.
	ProfileDir string

	// MaxConcurrent bounds parallel resolutions (0 = unlimited).
	MaxConcurrent int

	// DisableCache resolves every request from scratch.
	DisableCache bool

	// SecretPatterns and SecretPaths extend the built-in secret detection.
	SecretPatterns []string
	SecretPaths    []string
}

// New creates a new dependency injection container.
// The profile registry is built and frozen here, before any resolution runs.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Registry is immutable once built
	registry, err := config.BuildRegistry(opts.ProfileDir)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("profile registry built", "profiles", registry.Len(), "profile_dir", opts.ProfileDir)

	fragmentLoader := config.NewFragmentLoader()
	schemaProvider := validation.NewEmbeddedSchemaProvider()
	schemaValidator := validation.NewRuleSchemaValidator(schemaProvider)

	redactor, err := redaction.New(redaction.Config{
		Patterns: opts.SecretPatterns,
		Paths:    opts.SecretPaths,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{
		registry:         registry,
		fragmentLoader:   fragmentLoader,
		formatterFactory: output.NewFormatterFactory(),
		schemaProvider:   schemaProvider,
		redactor:         redactor,
		logger:           opts.Logger,
	}

	var cache repositories.ResolutionRepository
	if !opts.DisableCache {
		c.resolutionCache = memory.NewResolutionRepository()
		cache = c.resolutionCache
	}

	c.resolveUseCase = services.NewResolveConfigUseCase(
		registry,
		fragmentLoader,
		domainservices.NewProfileMerger(),
		domainservices.NewConfigValidator(),
		schemaValidator,
		cache,
		opts.Logger,
	).
		WithMaxConcurrent(opts.MaxConcurrent).
		WithSecretScanner(redactor)

	return c, nil
}

// ResolveUseCase returns the resolve configuration use case.
func (c *Container) ResolveUseCase() *services.ResolveConfigUseCase {
	return c.resolveUseCase
}

// Registry returns the frozen profile registry.
func (c *Container) Registry() *domainservices.Registry {
	return c.registry
}

// FragmentLoader returns the override fragment loader.
func (c *Container) FragmentLoader() *config.FragmentLoader {
	return c.fragmentLoader
}

// FormatterFactory returns the output formatter factory.
func (c *Container) FormatterFactory() *output.FormatterFactory {
	return c.formatterFactory
}

// ResolutionCache returns the resolution cache, or nil when disabled.
func (c *Container) ResolutionCache() *memory.ResolutionRepository {
	return c.resolutionCache
}

// SchemaProvider returns the embedded rule schema provider.
func (c *Container) SchemaProvider() *validation.EmbeddedSchemaProvider {
	return c.schemaProvider
}

// Redactor returns the secret scanner used for ScanSecrets requests.
func (c *Container) Redactor() *redaction.Redactor {
	return c.redactor
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
