// Package validation provides JSON Schema validation of rule option payloads.
package validation

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/kinal-dev/lintcfg/internal/application/ports"
	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

//go:embed schemas
var schemasFS embed.FS

var _ ports.RuleSchemaProvider = (*EmbeddedSchemaProvider)(nil)

// EmbeddedSchemaProvider serves the rule option schemas shipped in the binary.
// The schema for rule key k lives at schemas/<k>.json.
type EmbeddedSchemaProvider struct {
	fsys fs.FS
}

// NewEmbeddedSchemaProvider creates a provider over the embedded schemas.
func NewEmbeddedSchemaProvider() *EmbeddedSchemaProvider {
	sub, _ := fs.Sub(schemasFS, "schemas") // Static path; cannot fail
	return &EmbeddedSchemaProvider{fsys: sub}
}

// NewSchemaProviderFS creates a provider over an arbitrary file system laid
// out like the embedded one.
func NewSchemaProviderFS(fsys fs.FS) *EmbeddedSchemaProvider {
	return &EmbeddedSchemaProvider{fsys: fsys}
}

// GetRuleSchema returns the schema for ruleKey, or nil if there is none.
func (p *EmbeddedSchemaProvider) GetRuleSchema(_ context.Context, ruleKey string) ([]byte, error) {
	if _, err := values.NewRuleKey(ruleKey); err != nil {
		return nil, nil
	}

	name := ruleKey + ".json"
	if !fs.ValidPath(name) {
		return nil, nil
	}

	data, err := fs.ReadFile(p.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// RuleKeys lists the rules that have a schema, sorted.
func (p *EmbeddedSchemaProvider) RuleKeys() ([]string, error) {
	var keys []string
	err := fs.WalkDir(p.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".json" {
			return nil
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
