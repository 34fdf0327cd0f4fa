// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/application/ports"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/repositories"
	"github.com/kinal-dev/lintcfg/internal/domain/services"
)

// DefaultMaxConcurrentResolutions bounds ResolveAll when no limit is configured.
const DefaultMaxConcurrentResolutions = 4

// ResolveConfigUseCase orchestrates the resolve workflow:
// profile lookup, fragment loading, version checks, merge, validation, cache.
// This is a pure application layer component that depends only on ports.
type ResolveConfigUseCase struct {
	registry      ports.ProfileRegistry
	loader        ports.FragmentLoader
	merger        *services.ProfileMerger
	validator     ports.ConfigValidator
	schemas       ports.RuleSchemaValidator
	secrets       ports.SecretScanner
	cache         repositories.ResolutionRepository
	logger        *slog.Logger
	maxConcurrent int
}

// NewResolveConfigUseCase creates a new resolve use case.
// schemas and cache may be nil; schema validation and caching are then skipped.
func NewResolveConfigUseCase(
	registry ports.ProfileRegistry,
	loader ports.FragmentLoader,
	merger *services.ProfileMerger,
	validator ports.ConfigValidator,
	schemas ports.RuleSchemaValidator,
	cache repositories.ResolutionRepository,
	logger *slog.Logger,
) *ResolveConfigUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if merger == nil {
		merger = services.NewProfileMerger()
	}
	if validator == nil {
		validator = services.NewConfigValidator()
	}

	return &ResolveConfigUseCase{
		registry:      registry,
		loader:        loader,
		merger:        merger,
		validator:     validator,
		schemas:       schemas,
		cache:         cache,
		logger:        logger,
		maxConcurrent: DefaultMaxConcurrentResolutions,
	}
}

// WithMaxConcurrent sets the ResolveAll concurrency limit (0 = no limit).
func (uc *ResolveConfigUseCase) WithMaxConcurrent(n int) *ResolveConfigUseCase {
	uc.maxConcurrent = n
	return uc
}

// WithSecretScanner enables ScanSecrets requests.
func (uc *ResolveConfigUseCase) WithSecretScanner(s ports.SecretScanner) *ResolveConfigUseCase {
	uc.secrets = s
	return uc
}

// Execute resolves one configuration.
//
// Errors:
//   - *entities.UnknownProfileError: base profile not registered
//   - *apperrors.LoadError: a fragment could not be loaded
//   - *apperrors.ConfigurationError: a fragment's requires constraint failed
//   - *entities.UnknownPluginError: a fragment references an undeclared plugin
//   - *entities.ValidationError: violations found (unless CollectViolations)
func (uc *ResolveConfigUseCase) Execute(ctx context.Context, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	startTime := time.Now()

	requestID := req.Metadata.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := uc.logger.With("request_id", requestID, "profile", req.ProfileName)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if resolution, ok := uc.cached(ctx, key, req.Options); ok {
		logger.Debug("resolution cache hit", "key", key)
		return uc.buildResponse(requestID, startTime, resolution, req.Options, true)
	}

	resolution, err := uc.resolve(ctx, logger, key, req)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && !req.Options.NoCache {
		if err := uc.cache.Save(ctx, resolution); err != nil {
			logger.Warn("failed to cache resolution", "error", err)
		}
	}

	return uc.buildResponse(requestID, startTime, resolution, req.Options, false)
}

// ResolveAll resolves independent requests in parallel. Responses are
// returned in request order. The first failure cancels the remaining work.
func (uc *ResolveConfigUseCase) ResolveAll(ctx context.Context, reqs []dto.ResolveRequest) ([]*dto.ResolveResponse, error) {
	g, gCtx := errgroup.WithContext(ctx)

	if uc.maxConcurrent > 0 {
		g.SetLimit(uc.maxConcurrent)
	}

	responses := make([]*dto.ResolveResponse, len(reqs))

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := uc.Execute(gCtx, req)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", req.ProfileName, err)
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// ListRules resolves a configuration and returns the rules matching a filter.
func (uc *ResolveConfigUseCase) ListRules(ctx context.Context, req dto.ListRulesRequest) (*dto.ListRulesResponse, error) {
	filter, err := services.CompileRuleFilter(req.FilterExpression)
	if err != nil {
		return nil, apperrors.NewValidationError(
			"filter",
			fmt.Sprintf("invalid --filter expression: %v\nExample: severity == 'error' && plugin == 'react'", err),
		)
	}

	resp, err := uc.Execute(ctx, req.Resolve)
	if err != nil {
		return nil, err
	}

	rules, err := filter.Select(resp.Config)
	if err != nil {
		return nil, apperrors.NewValidationError("filter", err.Error())
	}

	return &dto.ListRulesResponse{Resolve: resp, Rules: rules}, nil
}

func (uc *ResolveConfigUseCase) cached(ctx context.Context, key string, opts dto.ResolveOptions) (*entities.Resolution, bool) {
	if uc.cache == nil || opts.NoCache {
		return nil, false
	}

	resolution, err := uc.cache.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrResolutionNotFound) {
			uc.logger.Warn("resolution cache lookup failed", "error", err)
		}
		return nil, false
	}
	return resolution, true
}

func (uc *ResolveConfigUseCase) resolve(
	ctx context.Context,
	logger *slog.Logger,
	key string,
	req dto.ResolveRequest,
) (*entities.Resolution, error) {
	profile, err := uc.registry.Get(req.ProfileName)
	if err != nil {
		return nil, err
	}

	logger.Debug("base profile found", "version", profile.Version, "rules", profile.RuleCount())

	var fragments []*entities.OverrideFragment
	if len(req.FragmentPaths) > 0 {
		if uc.loader == nil {
			return nil, apperrors.NewConfigurationError("fragments", "no fragment loader configured", nil)
		}
		fragments, err = uc.loader.LoadFragments(ctx, req.FragmentPaths)
		if err != nil {
			return nil, err
		}
	}

	if err := checkRequirements(profile, fragments); err != nil {
		return nil, err
	}

	cfg, err := uc.merger.Merge(profile, fragments)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration merged", "fragments", len(fragments), "rules", cfg.RuleCount())

	violations := uc.validator.Violations(cfg)

	if req.Options.WithSchemas && uc.schemas != nil {
		schemaViolations, err := uc.schemas.ValidateRuleOptions(ctx, cfg)
		if err != nil {
			return nil, apperrors.NewConfigurationError("schemas", "rule option validation failed", err)
		}
		violations = append(violations, schemaViolations...)
	}

	if req.Options.ScanSecrets && uc.secrets != nil {
		violations = append(violations, uc.secrets.ScanConfig(cfg)...)
	}

	logger.Info("configuration resolved",
		"fragments", len(fragments),
		"plugins", len(cfg.Plugins),
		"rules", cfg.RuleCount(),
		"violations", len(violations))

	return entities.NewResolution(key, cfg, violations), nil
}

// checkRequirements verifies every fragment's requires constraint against
// the base profile version.
func checkRequirements(profile *entities.Profile, fragments []*entities.OverrideFragment) error {
	for _, fragment := range fragments {
		ok, err := fragment.AcceptsProfileVersion(profile.Version)
		if err != nil {
			return apperrors.NewConfigurationError(
				"requires",
				fmt.Sprintf("fragment %s: cannot check profile version", fragment.Label()),
				err,
			)
		}
		if !ok {
			version := profile.Version
			if version == "" {
				version = "(none)"
			}
			return apperrors.NewConfigurationError(
				"requires",
				fmt.Sprintf("fragment %s requires %s %s, got %s",
					fragment.Label(), profile.Name, fragment.Requires, version),
				nil,
			)
		}
	}
	return nil
}

func (uc *ResolveConfigUseCase) buildResponse(
	requestID string,
	startTime time.Time,
	resolution *entities.Resolution,
	opts dto.ResolveOptions,
	cacheHit bool,
) (*dto.ResolveResponse, error) {
	if !resolution.IsValid() && !opts.CollectViolations {
		return nil, &entities.ValidationError{Violations: copyViolations(resolution.Violations)}
	}

	cfg := services.DeepCopyResolvedConfig(resolution.Config)

	return &dto.ResolveResponse{
		Config:     cfg,
		Violations: copyViolations(resolution.Violations),
		Metadata: dto.ResponseMetadata{
			RequestID:   requestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
		Diagnostics: dto.Diagnostics{
			Fragments: cfg.Fragments,
			CacheHit:  cacheHit,
		},
	}, nil
}

// cacheKey identifies a request by profile name, fragment paths, and the
// flags that change which violations are collected.
func cacheKey(req dto.ResolveRequest) string {
	var b strings.Builder
	b.WriteString(req.ProfileName)
	for _, p := range req.FragmentPaths {
		b.WriteByte(0)
		b.WriteString(p)
	}
	if req.Options.WithSchemas {
		b.WriteString("\x00+schemas")
	}
	if req.Options.ScanSecrets {
		b.WriteString("\x00+secrets")
	}
	return b.String()
}

func copyViolations(src []entities.Violation) []entities.Violation {
	if src == nil {
		return nil
	}
	dst := make([]entities.Violation, len(src))
	copy(dst, src)
	return dst
}
