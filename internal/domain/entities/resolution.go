package entities

import (
	"time"

	"github.com/google/uuid"
)

// Resolution records one completed resolution: the resolved configuration,
// every violation found while validating it, and when it was produced.
// It is the unit stored by the resolution cache.
type Resolution struct {
	ResolvedAt time.Time
	Config     *ResolvedConfig
	Key        string
	Violations []Violation
	ID         uuid.UUID
}

// NewResolution creates a resolution with a fresh ID.
func NewResolution(key string, cfg *ResolvedConfig, violations []Violation) *Resolution {
	return &Resolution{
		ID:         uuid.New(),
		Key:        key,
		Config:     cfg,
		Violations: violations,
		ResolvedAt: time.Now(),
	}
}

// IsValid returns true if no violations were recorded.
func (r *Resolution) IsValid() bool {
	return len(r.Violations) == 0
}

// ProfileName returns the name of the base profile, or "" if there is no config.
func (r *Resolution) ProfileName() string {
	if r.Config == nil {
		return ""
	}
	return r.Config.ProfileName
}
