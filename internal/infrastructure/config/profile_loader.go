package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/services"
)

// profileExtensions lists the file extensions recognised as profile documents.
// JSON is a subset of YAML, so both go through the same decoder.
var profileExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ProfileLoader handles loading base profiles from YAML or JSON files.
type ProfileLoader struct{}

// NewProfileLoader creates a new profile loader.
func NewProfileLoader() *ProfileLoader {
	return &ProfileLoader{}
}

// LoadProfile loads and parses a profile from a file.
// A profile without a name is named after its file.
func (l *ProfileLoader) LoadProfile(path string) (*entities.Profile, error) {
	file, closeFn, err := openInRoot(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer closeFn()

	profile, err := l.LoadProfileFromReader(file)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	if profile.Name == "" {
		profile.Name = nameFromPath(path)
	}
	return profile, nil
}

// LoadProfileFromReader loads a profile from an io.Reader.
// Unknown top-level keys are rejected.
func (l *ProfileLoader) LoadProfileFromReader(r io.Reader) (*entities.Profile, error) {
	var doc profileDocument

	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode profile YAML: %w", err)
	}

	return doc.toEntity()
}

// LoadProfileDir loads every profile document in dir, sorted by file name.
// Subdirectories are not traversed.
func (l *ProfileLoader) LoadProfileDir(dir string) ([]*entities.Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewLoadError(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !profileExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	profiles := make([]*entities.Profile, 0, len(names))
	for _, name := range names {
		profile, err := l.LoadProfile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// RegisterProfiles registers profiles under their own names.
func RegisterProfiles(builder *services.RegistryBuilder, profiles []*entities.Profile) error {
	for _, p := range profiles {
		if err := builder.Register(p.Name, p); err != nil {
			return err
		}
	}
	return nil
}

// openInRoot opens a file through os.OpenRoot on its directory so the
// name cannot escape it.
func openInRoot(path string) (io.Reader, func(), error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open directory: %w", err)
	}

	file, err := root.Open(base)
	if err != nil {
		_ = root.Close()
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	closeFn := func() {
		_ = file.Close() // Best-effort cleanup
		_ = root.Close()
	}
	return file, closeFn, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
