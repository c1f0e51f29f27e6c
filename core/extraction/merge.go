package extraction

import (
	"github.com/siherrmann/chronicle/model"
)

// ResolveEntityIDs fills in entity ids from the name index and drops instances
// whose name cannot be resolved. Generative extraction never creates entities;
// unknown names have no place in the timeline.
func ResolveEntityIDs(instances []*model.TemporalInstance, index model.EntityNameIndex) []*model.TemporalInstance {
	var resolved []*model.TemporalInstance
	for _, instance := range instances {
		id, ok := index.Resolve(instance.EntityName)
		if !ok {
			continue
		}
		instance.EntityID = id
		resolved = append(resolved, instance)
	}
	return resolved
}

// MergeWithPatternInstances keeps only the generative instances whose canonical
// id is not already covered by deterministic pattern extraction. Pattern
// results always take precedence; the generative tier only ever adds.
func MergeWithPatternInstances(patternInstanceIDs map[string]bool, instances []*model.TemporalInstance) []*model.TemporalInstance {
	var merged []*model.TemporalInstance
	for _, instance := range instances {
		id, ok := instance.CanonicalID()
		if !ok {
			continue
		}
		if patternInstanceIDs[id] {
			continue
		}
		merged = append(merged, instance)
	}
	return merged
}
