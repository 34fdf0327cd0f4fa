package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

func TestBuildFragmentTemplate(t *testing.T) {
	t.Parallel()

	profile := &entities.Profile{
		Name:    "react-typescript",
		Version: "1.2.3",
		Rules: map[string]entities.RuleSetting{
			"no-console": entities.NewRuleSetting(values.SevError),
		},
	}

	t.Run("pins major version", func(t *testing.T) {
		t.Parallel()
		doc, err := buildFragmentTemplate(profile, &InitOptions{Name: "web", Disable: []string{"no-console"}})
		require.NoError(t, err)

		assert.Equal(t, "web", doc.Name)
		assert.Equal(t, "^1.2.0", doc.Requires)
		assert.Equal(t, map[string]interface{}{"no-console": "off"}, doc.Rules)
	})

	t.Run("unknown rule", func(t *testing.T) {
		t.Parallel()
		_, err := buildFragmentTemplate(profile, &InitOptions{Name: "web", Disable: []string{"eqeqeq"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("unversioned profile", func(t *testing.T) {
		t.Parallel()
		doc, err := buildFragmentTemplate(&entities.Profile{Name: "adhoc"}, &InitOptions{Name: "web"})
		require.NoError(t, err)
		assert.Empty(t, doc.Requires)
		assert.Nil(t, doc.Rules)
	})
}

func TestRunInit_NonInteractive(t *testing.T) {
	ctx := newTestCommandContext(t)
	output := filepath.Join(t.TempDir(), "nested", "team.yaml")

	opts := &InitOptions{
		Profile:       "react-typescript",
		Name:          "web-team",
		Output:        output,
		Disable:       []string{"no-console"},
		NoInteractive: true,
	}
	out := &bytes.Buffer{}

	require.NoError(t, runInit(ctx, opts, out))
	assert.Contains(t, out.String(), "lintcfg resolve react-typescript -f "+output)

	fragment, err := ctx.Container.FragmentLoader().LoadFragment(output)
	require.NoError(t, err)
	assert.Equal(t, "web-team", fragment.Name)
	assert.Equal(t, "^1.2.0", fragment.Requires)
	require.Contains(t, fragment.Rules, "no-console")
	assert.Equal(t, values.SevOff, fragment.Rules["no-console"].Severity)

	// The generated fragment resolves against its profile
	resolveOpts := &ResolveOptions{CommonOptions: DefaultCommonOptions("json")}
	resolveOpts.Fragments = []string{output}
	require.NoError(t, runResolve(ctx, resolveOpts, []string{"react-typescript"}, &bytes.Buffer{}))
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	ctx := newTestCommandContext(t)
	output := filepath.Join(t.TempDir(), "team.yaml")
	require.NoError(t, os.WriteFile(output, []byte("name: old\n"), 0o600))

	opts := &InitOptions{Profile: "recommended", Output: output, NoInteractive: true}
	err := runInit(ctx, opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	opts.Force = true
	require.NoError(t, runInit(ctx, opts, &bytes.Buffer{}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: team")
	assert.Contains(t, string(data), "requires:")
}

func TestRunInit_MissingProfile(t *testing.T) {
	ctx := newTestCommandContext(t)

	err := runInit(ctx, &InitOptions{NoInteractive: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--profile is required")
}
