package dto

import (
	"time"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
)

// ResolveResponse contains the result of resolving a configuration.
type ResolveResponse struct {
	// Config is the resolved configuration. Callers own the returned copy.
	Config *entities.ResolvedConfig

	// Violations found during validation. Only populated when the request
	// asked to collect violations.
	Violations []entities.Violation

	// Metadata contains response metadata
	Metadata ResponseMetadata

	// Diagnostics contains additional diagnostic information
	Diagnostics Diagnostics
}

// IsValid returns true if the resolved configuration has no violations.
func (r *ResolveResponse) IsValid() bool {
	return len(r.Violations) == 0
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// RequestID from the original request, or the generated one
	RequestID string

	// Duration is how long the request took
	Duration time.Duration
}

// Diagnostics contains diagnostic information about resolution.
type Diagnostics struct {
	// Fragments lists the applied fragments in order, includes expanded
	Fragments []string

	// CacheHit is true when the result came from the resolution cache
	CacheHit bool
}

// ListRulesResponse contains the rules selected by a filter.
type ListRulesResponse struct {
	Resolve *ResolveResponse
	Rules   []entities.RuleView
}
