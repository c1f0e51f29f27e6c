package temporal

import (
	"math"

	"github.com/siherrmann/chronicle/model"
)

const hoursPerYear = 24.0 * 365.25

// Liveness is the tri-state outcome of a death lookup. Indeterminate means a
// death was recorded but its story time cannot be compared against the queried
// chapter; it is distinct from Alive, which either has no death record at all
// or a death provably later than the chapter.
type Liveness int

const (
	LivenessAlive Liveness = iota
	LivenessDead
	LivenessIndeterminate
)

// CanonicalInstance is the instance id for the default storyline instance of
// an entity in death records.
const CanonicalInstance = ""

type deathKey struct {
	entityID   int64
	instanceID string
}

// TemporalMap connects discourse time (chapters) with story time. It answers
// queries such as "what story moment is chapter 5 set in", "is this character
// alive in chapter 7" and "how many hours lie between chapter 3 and 4".
//
// A TemporalMap is built once per analysis run and is not safe for concurrent
// mutation; callers needing parallelism shard by run, not by sharing one map.
type TemporalMap struct {
	slices  map[int]*model.TemporalSlice
	ageRefs map[int64][]*model.AgeReference
	deaths  map[deathKey]model.StoryTime
	policy  model.FailSafePolicy
}

// NewTemporalMap creates an empty map with the given fail-safe policy
func NewTemporalMap(policy model.FailSafePolicy) *TemporalMap {
	return &TemporalMap{
		slices:  make(map[int]*model.TemporalSlice),
		ageRefs: make(map[int64][]*model.AgeReference),
		deaths:  make(map[deathKey]model.StoryTime),
		policy:  policy,
	}
}

// NewTemporalMapFromTimeline builds a map from upstream timeline events.
// When several events land on the same chapter only the highest-confidence one
// is kept; on equal confidence the first event wins, keeping the build
// deterministic.
func NewTemporalMapFromTimeline(events []*model.TimelineEvent, policy model.FailSafePolicy) *TemporalMap {
	tmap := NewTemporalMap(policy)

	for _, event := range events {
		narrativeType := policy.DefaultNarrativeType
		switch event.NarrativeOrder {
		case model.NarrativeAnalepsis:
			narrativeType = model.NarrativeAnalepsis
		case model.NarrativeProlepsis:
			narrativeType = model.NarrativeProlepsis
		case model.NarrativeParallel:
			narrativeType = model.NarrativeParallel
		}

		slice := &model.TemporalSlice{
			Chapter:           event.Chapter,
			DiscoursePosition: event.DiscoursePosition,
			Time:              event.Time,
			NarrativeType:     narrativeType,
			Confidence:        event.Confidence,
		}

		existing, ok := tmap.slices[event.Chapter]
		if !ok || slice.Confidence > existing.Confidence {
			tmap.slices[event.Chapter] = slice
		}
	}

	return tmap
}

// AddSlice sets the temporal slice for a chapter, replacing any existing one.
// The caller decides whether to compare confidence before overwriting.
func (m *TemporalMap) AddSlice(chapter int, slice *model.TemporalSlice) {
	m.slices[chapter] = slice
}

// AddAgeReference records an age reference. References are never deduplicated;
// queries pick the best temporal match instead.
func (m *TemporalMap) AddAgeReference(ref *model.AgeReference) {
	m.ageRefs[ref.EntityID] = append(m.ageRefs[ref.EntityID], ref)
}

// RegisterDeath records an entity's death, resolving the death chapter's story
// time at call time. A chapter without a resolvable story time stores an
// unknown time rather than failing; such deaths later read as indeterminate.
// instanceID distinguishes temporal instances of the same entity;
// CanonicalInstance marks the default storyline instance.
func (m *TemporalMap) RegisterDeath(entityID int64, deathChapter int, instanceID string) {
	m.deaths[deathKey{entityID, instanceID}] = m.StoryTime(deathChapter)
}

// StoryTime returns the story time of a chapter, or unknown if unmapped
func (m *TemporalMap) StoryTime(chapter int) model.StoryTime {
	slice, ok := m.slices[chapter]
	if !ok {
		return model.UnknownTime()
	}
	return slice.Time
}

// NarrativeType returns the narrative type of a chapter, falling back to the
// policy default for unmapped chapters
func (m *TemporalMap) NarrativeType(chapter int) model.NarrativeType {
	slice, ok := m.slices[chapter]
	if !ok {
		return m.policy.DefaultNarrativeType
	}
	return slice.NarrativeType
}

// CharacterAgeInChapter computes an entity's age in a chapter by projecting the
// temporally closest comparable age reference across the elapsed story time.
// The projected age is truncated to whole years and floored at zero. Returns
// ok == false when the chapter has no resolvable story time or no reference is
// comparable to it.
func (m *TemporalMap) CharacterAgeInChapter(entityID int64, chapter int) (int, bool) {
	refs := m.ageRefs[entityID]
	if len(refs) == 0 {
		return 0, false
	}

	targetTime := m.StoryTime(chapter)
	if !targetTime.IsKnown() {
		return 0, false
	}

	var bestRef *model.AgeReference
	var bestDelta float64
	var bestAbsDelta float64

	for _, ref := range refs {
		refTime := ref.Time
		if !refTime.IsKnown() {
			// Fall back to the story time of the chapter the age was stated in
			refTime = m.StoryTime(ref.Chapter)
		}
		if !refTime.IsKnown() {
			continue
		}

		delta, ok := model.CompareStoryTimes(refTime, targetTime)
		if !ok {
			continue
		}

		absDelta := math.Abs(delta)
		if bestRef == nil || absDelta < bestAbsDelta {
			bestRef = ref
			bestDelta = delta
			bestAbsDelta = absDelta
		}
	}

	if bestRef == nil {
		return 0, false
	}

	age := float64(bestRef.Age) + bestDelta/hoursPerYear
	if age < 0 {
		return 0, true
	}
	return int(age), true
}

// LivenessInChapter looks up the death record for (entityID, instanceID),
// falling back to the canonical instance. No record at all means alive. A
// record whose time cannot be compared against the chapter's story time is
// indeterminate, never dead: the engine only asserts death when the chapter
// provably lies strictly after the recorded death time.
func (m *TemporalMap) LivenessInChapter(entityID int64, chapter int, instanceID string) Liveness {
	deathTime, ok := m.deaths[deathKey{entityID, instanceID}]
	if !ok && instanceID != CanonicalInstance {
		deathTime, ok = m.deaths[deathKey{entityID, CanonicalInstance}]
	}
	if !ok {
		return LivenessAlive
	}

	if !deathTime.IsKnown() {
		return LivenessIndeterminate
	}

	chapterTime := m.StoryTime(chapter)
	if !chapterTime.IsKnown() {
		return LivenessIndeterminate
	}

	delta, comparable := model.CompareStoryTimes(deathTime, chapterTime)
	if !comparable {
		return LivenessIndeterminate
	}

	// delta > 0 means the chapter lies strictly after the death
	if delta > 0 {
		return LivenessDead
	}
	return LivenessAlive
}

// IsCharacterAliveInChapter reduces LivenessInChapter to a boolean, resolving
// indeterminate outcomes through the fail-safe policy
func (m *TemporalMap) IsCharacterAliveInChapter(entityID int64, chapter int, instanceID string) bool {
	switch m.LivenessInChapter(entityID, chapter, instanceID) {
	case LivenessDead:
		return false
	case LivenessIndeterminate:
		return m.policy.DefaultAlive
	default:
		return true
	}
}

// StoryTimeGapHours returns the signed story time difference between two
// chapters in hours, positive when ch2 is later
func (m *TemporalMap) StoryTimeGapHours(ch1, ch2 int) (float64, bool) {
	t1 := m.StoryTime(ch1)
	t2 := m.StoryTime(ch2)
	if !t1.IsKnown() || !t2.IsKnown() {
		return 0, false
	}
	return model.CompareStoryTimes(t1, t2)
}
