package model

// FailSafePolicy collects the conservative defaults the engine returns when
// temporal data is missing or incomparable. A false "character is dead" report
// destroys user trust, while a missed death is comparatively harmless, so every
// ambiguous branch resolves through this policy instead of inventing a finding.
type FailSafePolicy struct {
	DefaultAlive         bool          `json:"default_alive"`
	DefaultNarrativeType NarrativeType `json:"default_narrative_type"`
}

// DefaultFailSafePolicy returns the conservative defaults: alive, chronological
func DefaultFailSafePolicy() FailSafePolicy {
	return FailSafePolicy{
		DefaultAlive:         true,
		DefaultNarrativeType: NarrativeChronological,
	}
}
