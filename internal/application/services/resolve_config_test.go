package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinal-dev/lintcfg/internal/application/dto"
	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/repositories"
	"github.com/kinal-dev/lintcfg/internal/domain/services"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

// mockLoader serves fragments from memory and counts loads.
type mockLoader struct {
	fragments map[string]*entities.OverrideFragment
	loads     atomic.Int32
}

func (m *mockLoader) LoadFragments(_ context.Context, paths []string) ([]*entities.OverrideFragment, error) {
	m.loads.Add(1)
	var out []*entities.OverrideFragment
	for _, p := range paths {
		f, ok := m.fragments[p]
		if !ok {
			return nil, apperrors.NewLoadError(p, errors.New("file does not exist"))
		}
		out = append(out, f)
	}
	return out, nil
}

// mockCache is a minimal in-memory ResolutionRepository.
type mockCache struct {
	entries map[string]*entities.Resolution
	mu      sync.Mutex
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*entities.Resolution)}
}

func (c *mockCache) Save(_ context.Context, r *entities.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[r.Key] = r
	return nil
}

func (c *mockCache) FindByKey(_ context.Context, key string) (*entities.Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	if !ok {
		return nil, repositories.ErrResolutionNotFound
	}
	return r, nil
}

func (c *mockCache) FindByProfile(_ context.Context, _ string, _ int) ([]*entities.Resolution, error) {
	return nil, nil
}

// mockSchemas reports one violation per rule listed in bad.
type mockSchemas struct {
	bad []string
}

func (m *mockSchemas) ValidateRuleOptions(_ context.Context, cfg *entities.ResolvedConfig) ([]entities.Violation, error) {
	var out []entities.Violation
	for _, key := range m.bad {
		if _, ok := cfg.GetRule(key); ok {
			out = append(out, entities.Violation{Subject: key, Kind: entities.ViolationRuleOptions, Message: "bad options"})
		}
	}
	return out, nil
}

// mockSecrets flags every setting key listed in keys.
type mockSecrets struct {
	keys []string
}

func (m *mockSecrets) ScanConfig(cfg *entities.ResolvedConfig) []entities.Violation {
	var out []entities.Violation
	for _, key := range m.keys {
		if _, ok := cfg.Settings[key]; ok {
			out = append(out, entities.Violation{Subject: "settings." + key, Kind: entities.ViolationHardcodedSecret, Message: "possible credential"})
		}
	}
	return out
}

func setting(sev values.Severity, options ...interface{}) *entities.RuleSetting {
	s := entities.NewRuleSetting(sev, options...)
	return &s
}

func testRegistry(t *testing.T) *services.Registry {
	t.Helper()
	builder := services.NewRegistryBuilder()
	require.NoError(t, builder.Register("base", &entities.Profile{
		Version: "2.1.0",
		Plugins: []string{"core"},
		Rules: map[string]entities.RuleSetting{
			"core/no-console": entities.NewRuleSetting(values.SevError),
			"core/max-len":    entities.NewRuleSetting(values.SevWarn, map[string]interface{}{"code": 80}),
		},
	}))
	return builder.Build()
}

func testLoader() *mockLoader {
	return &mockLoader{fragments: map[string]*entities.OverrideFragment{
		"relax.yaml": {
			Name:  "relax",
			Rules: map[string]*entities.RuleSetting{"core/no-console": setting(values.SevWarn)},
		},
		"unset.yaml": {
			Name:  "unset",
			Rules: map[string]*entities.RuleSetting{"core/max-len": nil},
		},
		"zed.yaml": {
			Name:  "zed",
			Rules: map[string]*entities.RuleSetting{"pluginZ/someRule": setting(values.SevError)},
		},
		"v3.yaml": {
			Name:     "v3-only",
			Requires: "^3.0.0",
		},
		"v2.yaml": {
			Name:     "v2-compatible",
			Requires: ">= 2.0.0, < 3.0.0",
		},
		"broken.yaml": {
			Name:  "broken",
			Rules: map[string]*entities.RuleSetting{"no-console": {}},
		},
	}}
}

func newTestUseCase(t *testing.T, cache repositories.ResolutionRepository) (*ResolveConfigUseCase, *mockLoader) {
	loader := testLoader()
	uc := NewResolveConfigUseCase(testRegistry(t), loader, nil, nil, &mockSchemas{bad: []string{"core/max-len"}}, cache, nil)
	return uc, loader
}

func Test_ResolveConfigUseCase_Execute(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	resp, err := uc.Execute(context.Background(), dto.ResolveRequest{
		ProfileName:   "base",
		FragmentPaths: []string{"relax.yaml", "unset.yaml"},
	})
	require.NoError(t, err)

	assert.True(t, resp.IsValid())
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.Equal(t, []string{"relax", "unset"}, resp.Diagnostics.Fragments)
	assert.False(t, resp.Diagnostics.CacheHit)

	noConsole, ok := resp.Config.GetRule("core/no-console")
	require.True(t, ok)
	assert.Equal(t, values.SevWarn, noConsole.Severity)
	assert.Equal(t, []string{"core"}, resp.Config.Plugins)

	_, ok = resp.Config.GetRule("core/max-len")
	assert.False(t, ok)
}

func Test_ResolveConfigUseCase_KeepsRequestID(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	resp, err := uc.Execute(context.Background(), dto.ResolveRequest{
		ProfileName: "base",
		Metadata:    dto.RequestMetadata{RequestID: "req-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.Metadata.RequestID)
}

func Test_ResolveConfigUseCase_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     dto.ResolveRequest
		checkFn func(t *testing.T, err error)
	}{
		{
			name: "unknown profile",
			req:  dto.ResolveRequest{ProfileName: "missing"},
			checkFn: func(t *testing.T, err error) {
				var target *entities.UnknownProfileError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "missing fragment",
			req:  dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"nope.yaml"}},
			checkFn: func(t *testing.T, err error) {
				var target *apperrors.LoadError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "unknown plugin",
			req:  dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"zed.yaml"}},
			checkFn: func(t *testing.T, err error) {
				var target *entities.UnknownPluginError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "pluginZ", target.Plugin)
			},
		},
		{
			name: "requires not satisfied",
			req:  dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"v3.yaml"}},
			checkFn: func(t *testing.T, err error) {
				var target *apperrors.ConfigurationError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "requires", target.Aspect)
				assert.Contains(t, err.Error(), "v3-only")
			},
		},
		{
			name: "validation failure",
			req:  dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"broken.yaml"}},
			checkFn: func(t *testing.T, err error) {
				var target *entities.ValidationError
				require.ErrorAs(t, err, &target)
				require.Len(t, target.Violations, 1)
				assert.Equal(t, entities.ViolationInvalidSeverity, target.Violations[0].Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUseCase(t, nil)
			_, err := uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			tt.checkFn(t, err)
		})
	}
}

func Test_ResolveConfigUseCase_RequiresSatisfied(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	_, err := uc.Execute(context.Background(), dto.ResolveRequest{
		ProfileName:   "base",
		FragmentPaths: []string{"v2.yaml"},
	})
	assert.NoError(t, err)
}

func Test_ResolveConfigUseCase_CollectViolations(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	resp, err := uc.Execute(context.Background(), dto.ResolveRequest{
		ProfileName:   "base",
		FragmentPaths: []string{"broken.yaml"},
		Options:       dto.ResolveOptions{CollectViolations: true, WithSchemas: true},
	})
	require.NoError(t, err)

	assert.False(t, resp.IsValid())
	require.Len(t, resp.Violations, 2)
	assert.Equal(t, entities.ViolationInvalidSeverity, resp.Violations[0].Kind)
	assert.Equal(t, entities.ViolationRuleOptions, resp.Violations[1].Kind)
	assert.Equal(t, "core/max-len", resp.Violations[1].Subject)
}

func Test_ResolveConfigUseCase_SchemasOnlyWhenRequested(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	_, err := uc.Execute(context.Background(), dto.ResolveRequest{ProfileName: "base"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), dto.ResolveRequest{
		ProfileName: "base",
		Options:     dto.ResolveOptions{WithSchemas: true},
	})
	var target *entities.ValidationError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "core/max-len", target.Violations[0].Subject)
}

func Test_ResolveConfigUseCase_ScanSecrets(t *testing.T) {
	t.Parallel()
	loader := testLoader()
	loader.fragments["token.yaml"] = &entities.OverrideFragment{
		Name:     "token",
		Settings: map[string]interface{}{"registryToken": "not-a-real-token"},
	}
	cache := newMockCache()
	uc := NewResolveConfigUseCase(testRegistry(t), loader, nil, nil, nil, cache, nil).
		WithSecretScanner(&mockSecrets{keys: []string{"registryToken"}})
	ctx := context.Background()

	req := dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"token.yaml"}}
	_, err := uc.Execute(ctx, req)
	require.NoError(t, err, "secrets are only scanned on request")

	req.Options = dto.ResolveOptions{ScanSecrets: true, CollectViolations: true}
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Diagnostics.CacheHit, "scan flag is part of the cache key")
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, entities.ViolationHardcodedSecret, resp.Violations[0].Kind)
	assert.Equal(t, "settings.registryToken", resp.Violations[0].Subject)
}

func Test_ResolveConfigUseCase_Cache(t *testing.T) {
	t.Parallel()
	cache := newMockCache()
	uc, loader := newTestUseCase(t, cache)
	ctx := context.Background()
	req := dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"relax.yaml"}}

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Diagnostics.CacheHit)

	second, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Diagnostics.CacheHit)
	assert.Equal(t, int32(1), loader.loads.Load())
	assert.Equal(t, first.Config, second.Config)

	// Responses are independent copies of the cached config.
	delete(first.Config.Rules, "core/no-console")
	third, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Config.RuleCount())

	// NoCache bypasses the cache.
	req.Options.NoCache = true
	fourth, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, fourth.Diagnostics.CacheHit)
	assert.Equal(t, int32(2), loader.loads.Load())
}

func Test_ResolveConfigUseCase_CacheKeepsViolations(t *testing.T) {
	t.Parallel()
	cache := newMockCache()
	uc, _ := newTestUseCase(t, cache)
	ctx := context.Background()
	req := dto.ResolveRequest{ProfileName: "base", FragmentPaths: []string{"broken.yaml"}}

	_, err := uc.Execute(ctx, req)
	require.Error(t, err)

	_, err = uc.Execute(ctx, req)
	var target *entities.ValidationError
	assert.ErrorAs(t, err, &target, "a cached invalid resolution still fails")
}

func Test_ResolveConfigUseCase_ResolveAll(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, newMockCache())
	uc.WithMaxConcurrent(2)

	reqs := []dto.ResolveRequest{
		{ProfileName: "base"},
		{ProfileName: "base", FragmentPaths: []string{"relax.yaml"}},
		{ProfileName: "base", FragmentPaths: []string{"unset.yaml"}},
		{ProfileName: "base", FragmentPaths: []string{"relax.yaml", "unset.yaml"}},
	}

	responses, err := uc.ResolveAll(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, responses, 4)

	assert.Equal(t, 2, responses[0].Config.RuleCount())
	assert.Empty(t, responses[0].Config.Fragments)
	assert.Equal(t, []string{"relax"}, responses[1].Config.Fragments)
	assert.Equal(t, 1, responses[2].Config.RuleCount())
	assert.Equal(t, []string{"relax", "unset"}, responses[3].Config.Fragments)
}

func Test_ResolveConfigUseCase_ResolveAll_Failure(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	_, err := uc.ResolveAll(context.Background(), []dto.ResolveRequest{
		{ProfileName: "base"},
		{ProfileName: "base", FragmentPaths: []string{"zed.yaml"}},
	})

	var target *entities.UnknownPluginError
	assert.ErrorAs(t, err, &target)
}

func Test_ResolveConfigUseCase_CanceledContext(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, dto.ResolveRequest{ProfileName: "base"})
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_ResolveConfigUseCase_ListRules(t *testing.T) {
	t.Parallel()
	uc, _ := newTestUseCase(t, nil)

	resp, err := uc.ListRules(context.Background(), dto.ListRulesRequest{
		FilterExpression: "has_options",
		Resolve:          dto.ResolveRequest{ProfileName: "base"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "core/max-len", resp.Rules[0].Key)

	_, err = uc.ListRules(context.Background(), dto.ListRulesRequest{
		FilterExpression: "severity ==",
		Resolve:          dto.ResolveRequest{ProfileName: "base"},
	})
	var target *apperrors.ValidationError
	assert.ErrorAs(t, err, &target)
}
