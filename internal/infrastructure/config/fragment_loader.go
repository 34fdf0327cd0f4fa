package config

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-yaml"

	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/application/ports"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

var _ ports.FragmentLoader = (*FragmentLoader)(nil)

// FragmentLoader loads override fragments with include support.
//
// Include Resolution:
//   - A fragment may list other fragment files under `include`
//   - Included fragments are applied before the including fragment, in order
//   - Relative paths are resolved from the including fragment's directory
//   - Circular includes are detected and rejected
//   - A file reached twice in one load is applied once, at its first position
type FragmentLoader struct{}

// NewFragmentLoader creates a new fragment loader.
func NewFragmentLoader() *FragmentLoader {
	return &FragmentLoader{}
}

// LoadFragments loads the fragments at paths in order, expanding includes.
func (l *FragmentLoader) LoadFragments(ctx context.Context, paths []string) ([]*entities.OverrideFragment, error) {
	state := &includeState{
		visiting: make(map[string]bool),
		loaded:   make(map[string]bool),
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.loadRecursive(path, nil, state); err != nil {
			return nil, err
		}
	}
	return state.fragments, nil
}

// LoadFragment loads a single fragment file without expanding includes.
func (l *FragmentLoader) LoadFragment(path string) (*entities.OverrideFragment, error) {
	file, closeFn, err := openInRoot(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer closeFn()

	fragment, err := l.LoadFragmentFromReader(file, path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	return fragment, nil
}

// LoadFragmentFromReader decodes and validates one fragment.
// source is recorded on the fragment for error messages.
func (l *FragmentLoader) LoadFragmentFromReader(r io.Reader, source string) (*entities.OverrideFragment, error) {
	var doc fragmentDocument

	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode fragment YAML: %w", err)
	}

	fragment, err := doc.toEntity(source)
	if err != nil {
		return nil, err
	}
	if fragment.Name == "" {
		fragment.Name = nameFromPath(source)
	}
	if err := fragment.Validate(); err != nil {
		return nil, err
	}
	return fragment, nil
}

type includeState struct {
	visiting  map[string]bool
	loaded    map[string]bool
	chain     []string
	fragments []*entities.OverrideFragment
}

func (l *FragmentLoader) loadRecursive(path string, parent *string, state *includeState) error {
	if parent != nil && !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(*parent), path)
	}

	// Resolve to absolute path for consistent tracking
	absPath, err := filepath.Abs(path)
	if err != nil {
		return apperrors.NewLoadError(path, fmt.Errorf("resolving path: %w", err))
	}

	if state.visiting[absPath] {
		return apperrors.NewLoadError(path, fmt.Errorf("circular include detected: %s", formatChain(append(state.chain, absPath))))
	}
	if state.loaded[absPath] {
		return nil
	}

	fragment, err := l.LoadFragment(path)
	if err != nil {
		return err
	}

	state.visiting[absPath] = true
	state.chain = append(state.chain, absPath)

	for _, include := range fragment.Include {
		if err := l.loadRecursive(include, &path, state); err != nil {
			return err
		}
	}

	state.chain = state.chain[:len(state.chain)-1]
	delete(state.visiting, absPath)
	state.loaded[absPath] = true
	state.fragments = append(state.fragments, fragment)
	return nil
}

func formatChain(chain []string) string {
	out := ""
	for i, p := range chain {
		if i > 0 {
			out += " -> "
		}
		out += filepath.Base(p)
	}
	return out
}
