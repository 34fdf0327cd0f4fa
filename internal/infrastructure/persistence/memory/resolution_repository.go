// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/repositories"
)

// Ensure interface compliance
var _ repositories.ResolutionRepository = (*ResolutionRepository)(nil)

// ResolutionRepository is an in-memory implementation of ResolutionRepository.
// It backs the resolver cache for the lifetime of the process.
type ResolutionRepository struct {
	resolutions map[string]*entities.Resolution
	mu          sync.RWMutex
}

// NewResolutionRepository creates a new in-memory repository.
func NewResolutionRepository() *ResolutionRepository {
	return &ResolutionRepository{
		resolutions: make(map[string]*entities.Resolution),
	}
}

// Save stores a resolution under its key.
// Callers must not modify the resolution after saving.
func (r *ResolutionRepository) Save(_ context.Context, resolution *entities.Resolution) error {
	if resolution == nil {
		return fmt.Errorf("cannot save nil resolution")
	}
	if resolution.Key == "" {
		return fmt.Errorf("resolution key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolutions[resolution.Key] = resolution
	return nil
}

// FindByKey retrieves a resolution by cache key.
func (r *ResolutionRepository) FindByKey(_ context.Context, key string) (*entities.Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resolutions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrResolutionNotFound, key)
	}
	return res, nil
}

// FindByProfile retrieves the most recent resolutions of a base profile.
func (r *ResolutionRepository) FindByProfile(_ context.Context, profileName string, limit int) ([]*entities.Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*entities.Resolution
	for _, res := range r.resolutions {
		if res.ProfileName() == profileName {
			matches = append(matches, res)
		}
	}

	// Newest first; key breaks ties so the order is stable.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ResolvedAt.Equal(matches[j].ResolvedAt) {
			return matches[i].Key < matches[j].Key
		}
		return matches[i].ResolvedAt.After(matches[j].ResolvedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// Len returns the number of stored resolutions.
func (r *ResolutionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resolutions)
}
