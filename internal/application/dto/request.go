// Package dto contains data transfer objects for application layer use cases.
package dto

// ResolveRequest encapsulates all inputs needed to resolve a configuration.
type ResolveRequest struct {
	Metadata      RequestMetadata
	ProfileName   string
	FragmentPaths []string
	Options       ResolveOptions
}

// ResolveOptions controls validation and caching behaviour.
type ResolveOptions struct {
	// WithSchemas validates rule option payloads against JSON Schemas.
	WithSchemas bool

	// ScanSecrets reports credentials found in settings and rule options.
	ScanSecrets bool

	// CollectViolations returns violations in the response instead of
	// failing with a ValidationError.
	CollectViolations bool

	// NoCache bypasses the resolution cache for this request.
	NoCache bool
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request. Generated when empty.
	RequestID string
}

// ListRulesRequest resolves a configuration and selects rules from it.
type ListRulesRequest struct {
	FilterExpression string
	Resolve          ResolveRequest
}
