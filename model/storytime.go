package model

import "time"

// TimeKind discriminates the story time representation
type TimeKind int

const (
	TimeUnknown TimeKind = iota
	TimeAbsolute
	TimeRelative
)

// StoryTime is a point in story time: an absolute calendar date, a day offset
// from an arbitrary day zero, or unknown. A synthetic absolute is a date that was
// constructed from a day offset; it keeps the source offset so a comparison
// against a relative time converts back exactly instead of guessing an epoch.
// This union is the single representation of story time in the engine; all
// comparison arithmetic goes through CompareStoryTimes.
type StoryTime struct {
	Kind      TimeKind  `json:"kind"`
	Date      time.Time `json:"date,omitempty"`       // valid when Kind == TimeAbsolute
	DayOffset int       `json:"day_offset,omitempty"` // valid when Kind == TimeRelative or Synthetic
	Synthetic bool      `json:"synthetic,omitempty"`
}

// UnknownTime returns the unknown story time
func UnknownTime() StoryTime {
	return StoryTime{Kind: TimeUnknown}
}

// AbsoluteTime returns a story time anchored to a calendar date
func AbsoluteTime(date time.Time) StoryTime {
	return StoryTime{Kind: TimeAbsolute, Date: date}
}

// RelativeTime returns a story time as a day offset from day zero
func RelativeTime(dayOffset int) StoryTime {
	return StoryTime{Kind: TimeRelative, DayOffset: dayOffset}
}

// SyntheticAbsoluteTime returns an absolute story time constructed from a day
// offset against the given epoch. The offset is retained for comparisons.
func SyntheticAbsoluteTime(epoch time.Time, dayOffset int) StoryTime {
	return StoryTime{
		Kind:      TimeAbsolute,
		Date:      epoch.AddDate(0, 0, dayOffset),
		DayOffset: dayOffset,
		Synthetic: true,
	}
}

// IsKnown reports whether the story time carries any temporal information
func (t StoryTime) IsKnown() bool {
	return t.Kind != TimeUnknown
}

// CompareStoryTimes returns the signed elapsed time from t1 to t2 in hours,
// positive when t2 is later. Two times are comparable when both are absolute,
// both are relative, or one side is a synthetic absolute compared against a
// relative (the synthetic side is converted back to its source offset).
// Incomparable pairings return ok == false.
func CompareStoryTimes(t1, t2 StoryTime) (float64, bool) {
	if !t1.IsKnown() || !t2.IsKnown() {
		return 0, false
	}

	if t1.Kind == TimeAbsolute && t2.Kind == TimeAbsolute {
		return t2.Date.Sub(t1.Date).Hours(), true
	}

	o1, ok1 := t1.asDayOffset()
	o2, ok2 := t2.asDayOffset()
	if ok1 && ok2 {
		return float64(o2-o1) * 24.0, true
	}

	return 0, false
}

// asDayOffset returns the day offset of a relative or synthetic absolute time
func (t StoryTime) asDayOffset() (int, bool) {
	if t.Kind == TimeRelative {
		return t.DayOffset, true
	}
	if t.Kind == TimeAbsolute && t.Synthetic {
		return t.DayOffset, true
	}
	return 0, false
}
