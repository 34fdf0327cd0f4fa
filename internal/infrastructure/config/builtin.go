package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	apperrors "github.com/kinal-dev/lintcfg/internal/application/errors"
	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/services"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinProfiles decodes the profiles shipped inside the binary,
// sorted by name.
func BuiltinProfiles() ([]*entities.Profile, error) {
	names, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing built-in profiles: %w", err)
	}
	sort.Strings(names)

	loader := NewProfileLoader()
	profiles := make([]*entities.Profile, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, apperrors.NewLoadError(name, err)
		}
		profile, err := loader.LoadProfileFromReader(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewLoadError(name, err)
		}
		if profile.Name == "" {
			profile.Name = nameFromPath(path.Base(name))
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// LoadBuiltins registers the built-in profiles with builder.
func LoadBuiltins(builder *services.RegistryBuilder) error {
	profiles, err := BuiltinProfiles()
	if err != nil {
		return err
	}
	return RegisterProfiles(builder, profiles)
}

// BuildRegistry registers the built-in profiles plus every profile found in
// profileDir (if non-empty) and freezes the result. A directory profile may
// not reuse a built-in name.
func BuildRegistry(profileDir string) (*services.Registry, error) {
	builder := services.NewRegistryBuilder()
	if err := LoadBuiltins(builder); err != nil {
		return nil, err
	}

	if profileDir != "" {
		profiles, err := NewProfileLoader().LoadProfileDir(profileDir)
		if err != nil {
			return nil, err
		}
		if err := RegisterProfiles(builder, profiles); err != nil {
			return nil, err
		}
	}

	return builder.Build(), nil
}
