package services

import (
	"fmt"
	"sort"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// RegistryBuilder collects profile registrations during startup.
// Build freezes the collected profiles into an immutable Registry; there is
// no registration after that point and no process-wide registry state.
type RegistryBuilder struct {
	profiles map[string]*entities.Profile
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		profiles: make(map[string]*entities.Profile),
	}
}

// Register adds a profile under name.
// Returns *entities.DuplicateProfileError if the name is already taken.
// The profile is copied; later changes to the argument have no effect.
func (b *RegistryBuilder) Register(name string, profile *entities.Profile) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if profile == nil {
		return fmt.Errorf("cannot register nil profile %s", name)
	}
	if _, exists := b.profiles[name]; exists {
		return &entities.DuplicateProfileError{Name: name}
	}

	stored := DeepCopyProfile(profile)
	stored.Name = name
	if err := stored.Validate(); err != nil {
		return fmt.Errorf("registering profile %s: %w", name, err)
	}

	b.profiles[name] = stored
	return nil
}

// Build returns the immutable registry. The builder may keep being used to
// build further registries; they share no state.
func (b *RegistryBuilder) Build() *Registry {
	profiles := make(map[string]*entities.Profile, len(b.profiles))
	for name, p := range b.profiles {
		profiles[name] = DeepCopyProfile(p)
	}
	return &Registry{profiles: profiles}
}

// Registry is an immutable mapping from profile name to profile.
// It is safe for concurrent use.
type Registry struct {
	profiles map[string]*entities.Profile
}

// Get returns a copy of the named profile.
// Returns *entities.UnknownProfileError if the name is absent.
func (r *Registry) Get(name string) (*entities.Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, &entities.UnknownProfileError{Name: name, Available: r.Names()}
	}
	return DeepCopyProfile(p), nil
}

// Has returns true if a profile with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.profiles[name]
	return ok
}

// Names returns registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
