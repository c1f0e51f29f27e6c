package model

import "fmt"

// InstanceKind is the kind of temporal fact an extraction tier produced
type InstanceKind string

const (
	InstanceAge    InstanceKind = "age"    // explicit numeric age
	InstancePhase  InstanceKind = "phase"  // life phase
	InstanceYear   InstanceKind = "year"   // calendar year tied to the entity
	InstanceOffset InstanceKind = "offset" // years relative to the narrative present
)

// ValidInstanceKinds enumerates the kinds accepted from extraction output
var ValidInstanceKinds = map[InstanceKind]bool{
	InstanceAge:    true,
	InstancePhase:  true,
	InstanceYear:   true,
	InstanceOffset: true,
}

// LifePhase is the closed vocabulary for phase instances
type LifePhase string

const (
	PhaseChild LifePhase = "child"
	PhaseTeen  LifePhase = "teen"
	PhaseYoung LifePhase = "young"
	PhaseAdult LifePhase = "adult"
	PhaseElder LifePhase = "elder"
)

// ValidLifePhases enumerates the accepted phase labels
var ValidLifePhases = map[LifePhase]bool{
	PhaseChild: true,
	PhaseTeen:  true,
	PhaseYoung: true,
	PhaseAdult: true,
	PhaseElder: true,
}

// TemporalInstance is one extracted fact about an entity's position in time.
// Number carries the value for age, year and offset kinds; Phase carries the
// value for phase kind. EntityID is zero until the name has been resolved.
type TemporalInstance struct {
	EntityName string       `json:"entity"`
	EntityID   int64        `json:"entity_id,omitempty"`
	Kind       InstanceKind `json:"type"`
	Number     int          `json:"number,omitempty"`
	Phase      LifePhase    `json:"phase,omitempty"`
	Evidence   string       `json:"evidence"`
	Confidence float64      `json:"confidence"`
}

// CanonicalID builds the canonical instance identifier used for deduplication
// between extraction tiers (e.g. "7@age:42"). It requires a resolved entity id.
func (i *TemporalInstance) CanonicalID() (string, bool) {
	if i.EntityID == 0 {
		return "", false
	}
	switch i.Kind {
	case InstanceAge:
		return fmt.Sprintf("%d@age:%d", i.EntityID, i.Number), true
	case InstancePhase:
		return fmt.Sprintf("%d@phase:%s", i.EntityID, i.Phase), true
	case InstanceYear:
		return fmt.Sprintf("%d@year:%d", i.EntityID, i.Number), true
	case InstanceOffset:
		return fmt.Sprintf("%d@offset_years:%+d", i.EntityID, i.Number), true
	}
	return "", false
}
