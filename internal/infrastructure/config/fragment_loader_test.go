package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

func TestLoadFragmentFromReader_UnsetEntries(t *testing.T) {
	doc := `
name: relax
requires: ">= 1.0.0"
plugins: [react]
rules:
  no-console: warn
  max-len: null
  react/prop-types: ~
`
	fragment, err := NewFragmentLoader().LoadFragmentFromReader(strings.NewReader(doc), "relax.yaml")
	require.NoError(t, err)

	assert.Equal(t, "relax", fragment.Name)
	assert.Equal(t, "relax.yaml", fragment.Source)
	assert.Equal(t, ">= 1.0.0", fragment.Requires)
	require.Len(t, fragment.Rules, 3)
	assert.True(t, fragment.IsUnset("max-len"))
	assert.True(t, fragment.IsUnset("react/prop-types"))
	require.NotNil(t, fragment.Rules["no-console"])
	assert.Equal(t, values.SevWarn, fragment.Rules["no-console"].Severity)
}

func TestLoadFragmentFromReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"invalid yaml", "rules: [", "failed to decode"},
		{"unknown field", "name: x\nroot: true\n", "failed to decode"},
		{"bad requires", "requires: not-a-version\n", "requires"},
		{"bad severity", "rules:\n  no-console: [loud]\n", "no-console"},
		{"empty list", "rules:\n  no-console: []\n", "no-console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFragmentLoader().LoadFragmentFromReader(strings.NewReader(tt.doc), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFragments_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.yaml", "name: shared\nrules:\n  no-console: warn\n")
	writeFile(t, dir, "react.yaml", "name: react\ninclude: [shared.yaml]\nplugins: [react]\n")
	team := writeFile(t, dir, "team.yaml", "name: team\ninclude: [react.yaml, shared.yaml]\n")
	extra := writeFile(t, dir, "extra.yaml", "rules:\n  eqeqeq: error\n")

	fragments, err := NewFragmentLoader().LoadFragments(context.Background(), []string{team, extra})
	require.NoError(t, err)

	var names []string
	for _, f := range fragments {
		names = append(names, f.Name)
	}
	// Includes come first, and shared.yaml is applied once.
	assert.Equal(t, []string{"shared", "react", "team", "extra"}, names)
}

func TestLoadFragments_IncludeRelativeToParent(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, mkdir(sub))
	writeFile(t, sub, "inner.yaml", "name: inner\n")
	outer := writeFile(t, dir, "outer.yaml", "name: outer\ninclude: [sub/inner.yaml]\n")

	fragments, err := NewFragmentLoader().LoadFragments(context.Background(), []string{outer})
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, "inner", fragments[0].Name)
}

func TestLoadFragments_Cycle(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "include: [c.yaml]\n")
	writeFile(t, dir, "c.yaml", "include: [a.yaml]\n")

	_, err := NewFragmentLoader().LoadFragments(context.Background(), []string{a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular include detected: a.yaml -> b.yaml -> c.yaml -> a.yaml")

	var loadErr *apperrors.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadFragments_SelfInclude(t *testing.T) {
	dir := t.TempDir()
	self := writeFile(t, dir, "self.yaml", "include: [self.yaml]\n")

	_, err := NewFragmentLoader().LoadFragments(context.Background(), []string{self})
	assert.ErrorContains(t, err, "circular include")
}

func TestLoadFragments_Missing(t *testing.T) {
	dir := t.TempDir()
	parent := writeFile(t, dir, "parent.yaml", "include: [missing.yaml]\n")

	_, err := NewFragmentLoader().LoadFragments(context.Background(), []string{parent})

	var loadErr *apperrors.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Source, "missing.yaml")
}

func TestLoadFragments_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFragmentLoader().LoadFragments(ctx, []string{"whatever.yaml"})
	assert.ErrorIs(t, err, context.Canceled)
}

func mkdir(path string) error {
	return os.Mkdir(path, 0o700)
}
