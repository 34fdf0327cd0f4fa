// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// ErrResolutionNotFound is returned when no resolution is stored under a key.
var ErrResolutionNotFound = errors.New("resolution not found")

// ResolutionRepository defines the interface for storing completed resolutions.
type ResolutionRepository interface {
	// Save stores a resolution under its key, replacing any previous entry.
	Save(ctx context.Context, resolution *entities.Resolution) error

	// FindByKey retrieves a resolution by cache key.
	// Returns ErrResolutionNotFound if absent.
	FindByKey(ctx context.Context, key string) (*entities.Resolution, error)

	// FindByProfile retrieves the most recent resolutions of a base profile.
	FindByProfile(ctx context.Context, profileName string, limit int) ([]*entities.Resolution, error)
}
