package temporal

import (
	"testing"
	"time"

	"github.com/siherrmann/chronicle/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestMap() *TemporalMap {
	return NewTemporalMap(model.DefaultFailSafePolicy())
}

func TestStoryTime(t *testing.T) {
	t.Run("Returns slice time for mapped chapter", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{
			Chapter:    1,
			Time:       model.AbsoluteTime(date(2020, time.January, 1)),
			Confidence: 0.9,
		})

		st := tmap.StoryTime(1)

		assert.Equal(t, model.TimeAbsolute, st.Kind)
		assert.Equal(t, date(2020, time.January, 1), st.Date)
	})

	t.Run("Returns unknown for unmapped chapter", func(t *testing.T) {
		tmap := newTestMap()

		st := tmap.StoryTime(42)

		assert.False(t, st.IsKnown())
	})

	t.Run("Later slice replaces earlier one", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(7)})

		st := tmap.StoryTime(1)

		assert.Equal(t, 7, st.DayOffset)
	})
}

func TestNarrativeType(t *testing.T) {
	t.Run("Returns slice narrative type", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(3, &model.TemporalSlice{
			Chapter:       3,
			NarrativeType: model.NarrativeAnalepsis,
		})

		assert.Equal(t, model.NarrativeAnalepsis, tmap.NarrativeType(3))
	})

	t.Run("Defaults to chronological for unmapped chapter", func(t *testing.T) {
		tmap := newTestMap()

		assert.Equal(t, model.NarrativeChronological, tmap.NarrativeType(99))
	})
}

func TestRegisterDeathAndLiveness(t *testing.T) {
	t.Run("Entity with no death record is alive everywhere", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1))})

		for chapter := 0; chapter < 10; chapter++ {
			assert.True(t, tmap.IsCharacterAliveInChapter(7, chapter, CanonicalInstance))
			assert.Equal(t, LivenessAlive, tmap.LivenessInChapter(7, chapter, CanonicalInstance))
		}
	})

	t.Run("Absolute dates around a death", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1))})
		tmap.AddSlice(5, &model.TemporalSlice{Chapter: 5, Time: model.AbsoluteTime(date(2020, time.June, 1))})
		tmap.AddSlice(8, &model.TemporalSlice{Chapter: 8, Time: model.AbsoluteTime(date(2020, time.December, 1))})

		tmap.RegisterDeath(1, 5, CanonicalInstance)

		// Before the death
		assert.True(t, tmap.IsCharacterAliveInChapter(1, 1, CanonicalInstance))
		// At the death time: death is only asserted strictly after it
		assert.True(t, tmap.IsCharacterAliveInChapter(1, 5, CanonicalInstance))
		// Strictly after the death
		assert.False(t, tmap.IsCharacterAliveInChapter(1, 8, CanonicalInstance))
		assert.Equal(t, LivenessDead, tmap.LivenessInChapter(1, 8, CanonicalInstance))
		// Unmapped chapter falls back to alive
		assert.True(t, tmap.IsCharacterAliveInChapter(1, 6, CanonicalInstance))
	})

	t.Run("Flashback chapter before death reads alive", func(t *testing.T) {
		tmap := newTestMap()
		// Discourse order: death in chapter 2, flashback in chapter 9 set earlier
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.AbsoluteTime(date(1940, time.May, 1))})
		tmap.AddSlice(9, &model.TemporalSlice{
			Chapter:       9,
			Time:          model.AbsoluteTime(date(1920, time.May, 1)),
			NarrativeType: model.NarrativeAnalepsis,
		})

		tmap.RegisterDeath(4, 2, CanonicalInstance)

		assert.True(t, tmap.IsCharacterAliveInChapter(4, 9, CanonicalInstance))
	})

	t.Run("Relative offsets around a death", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(3)})
		tmap.AddSlice(3, &model.TemporalSlice{Chapter: 3, Time: model.RelativeTime(10)})

		tmap.RegisterDeath(2, 2, CanonicalInstance)

		assert.True(t, tmap.IsCharacterAliveInChapter(2, 1, CanonicalInstance))
		assert.True(t, tmap.IsCharacterAliveInChapter(2, 2, CanonicalInstance))
		assert.False(t, tmap.IsCharacterAliveInChapter(2, 3, CanonicalInstance))
	})

	t.Run("Death in chapter without slice is indeterminate", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})

		tmap.RegisterDeath(3, 99, CanonicalInstance)

		assert.Equal(t, LivenessIndeterminate, tmap.LivenessInChapter(3, 1, CanonicalInstance))
		// The fail-safe policy resolves indeterminate to alive
		assert.True(t, tmap.IsCharacterAliveInChapter(3, 1, CanonicalInstance))
	})

	t.Run("Death time written once is not recomputed", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(5, &model.TemporalSlice{Chapter: 5, Time: model.RelativeTime(10)})
		tmap.AddSlice(6, &model.TemporalSlice{Chapter: 6, Time: model.RelativeTime(20)})

		tmap.RegisterDeath(1, 5, CanonicalInstance)
		// Replacing the slice afterwards must not move the recorded death
		tmap.AddSlice(5, &model.TemporalSlice{Chapter: 5, Time: model.RelativeTime(100)})

		assert.False(t, tmap.IsCharacterAliveInChapter(1, 6, CanonicalInstance))
	})

	t.Run("Incomparable death and chapter times are indeterminate", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1))})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})

		tmap.RegisterDeath(1, 1, CanonicalInstance)

		assert.Equal(t, LivenessIndeterminate, tmap.LivenessInChapter(1, 2, CanonicalInstance))
		assert.True(t, tmap.IsCharacterAliveInChapter(1, 2, CanonicalInstance))
	})

	t.Run("Instance death falls back to canonical record", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})

		tmap.RegisterDeath(1, 1, CanonicalInstance)

		// Query for a specific temporal instance with no record of its own
		assert.False(t, tmap.IsCharacterAliveInChapter(1, 2, "1@phase:elder"))
	})

	t.Run("Instance death does not leak into other instances", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})

		tmap.RegisterDeath(1, 1, "1@phase:elder")

		// Canonical instance has no record and stays alive
		assert.True(t, tmap.IsCharacterAliveInChapter(1, 2, CanonicalInstance))
		assert.False(t, tmap.IsCharacterAliveInChapter(1, 2, "1@phase:elder"))
	})

	t.Run("Pessimistic policy resolves indeterminate to dead", func(t *testing.T) {
		policy := model.FailSafePolicy{DefaultAlive: false, DefaultNarrativeType: model.NarrativeChronological}
		tmap := NewTemporalMap(policy)
		tmap.RegisterDeath(1, 99, CanonicalInstance)

		assert.False(t, tmap.IsCharacterAliveInChapter(1, 1, CanonicalInstance))
		// Absence of any record is still alive, not a policy question
		assert.True(t, tmap.IsCharacterAliveInChapter(2, 1, CanonicalInstance))
	})
}

func TestCharacterAgeInChapter(t *testing.T) {
	t.Run("No references returns unknown", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})

		_, ok := tmap.CharacterAgeInChapter(1, 1)

		assert.False(t, ok)
	})

	t.Run("Small elapsed time keeps the stated age", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(10)})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 30, Chapter: 1, Time: model.RelativeTime(0), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(1, 2)

		require.True(t, ok)
		assert.Equal(t, 30, age, "ten days must not add a year")
	})

	t.Run("Ages forward across absolute years", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(1930, time.March, 1))})
		tmap.AddSlice(7, &model.TemporalSlice{Chapter: 7, Time: model.AbsoluteTime(date(1940, time.March, 1))})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 2, Age: 25, Chapter: 1, Time: model.AbsoluteTime(date(1930, time.March, 1)), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(2, 7)

		require.True(t, ok)
		assert.Equal(t, 35, age)
	})

	t.Run("Ages backward for flashbacks and floors at zero", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(1943, time.January, 1))})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.AbsoluteTime(date(1941, time.January, 1))})
		tmap.AddSlice(3, &model.TemporalSlice{Chapter: 3, Time: model.AbsoluteTime(date(1900, time.January, 1))})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 3, Age: 30, Chapter: 1, Time: model.AbsoluteTime(date(1943, time.January, 1)), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(3, 2)
		require.True(t, ok)
		assert.Equal(t, 28, age, "two calendar years back subtracts two whole years")

		age, ok = tmap.CharacterAgeInChapter(3, 3)
		require.True(t, ok)
		assert.Equal(t, 0, age, "projected age before birth floors at zero")
	})

	t.Run("Truncates toward zero across leap days", func(t *testing.T) {
		// 1940-01-01 to 1950-01-01 spans three leap days, so the elapsed
		// time is just over ten 365.25-day years in either direction.
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(1950, time.January, 1))})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.AbsoluteTime(date(1940, time.January, 1))})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 4, Age: 30, Chapter: 1, Time: model.AbsoluteTime(date(1950, time.January, 1)), Confidence: 0.8,
		})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 5, Age: 30, Chapter: 2, Time: model.AbsoluteTime(date(1940, time.January, 1)), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(4, 2)
		require.True(t, ok)
		assert.Equal(t, 19, age, "backward projection lands just under 20 and truncates toward zero")

		age, ok = tmap.CharacterAgeInChapter(5, 1)
		require.True(t, ok)
		assert.Equal(t, 40, age, "forward projection lands just over 40")
	})

	t.Run("Picks the temporally closest reference", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(5, &model.TemporalSlice{Chapter: 5, Time: model.RelativeTime(400)})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 30, Chapter: 1, Time: model.RelativeTime(0), Confidence: 0.8,
		})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 32, Chapter: 5, Time: model.RelativeTime(390), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(1, 5)

		require.True(t, ok)
		assert.Equal(t, 32, age, "closest reference wins over projection from a distant one")
	})

	t.Run("Reference without own time falls back to its chapter slice", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(730)})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 40, Chapter: 1, Time: model.UnknownTime(), Confidence: 0.8,
		})

		age, ok := tmap.CharacterAgeInChapter(1, 2)

		require.True(t, ok)
		assert.Equal(t, 41, age, "two years of story time add one truncated year")
	})

	t.Run("Unknown chapter time returns unknown", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 30, Chapter: 1, Time: model.RelativeTime(0), Confidence: 0.8,
		})

		_, ok := tmap.CharacterAgeInChapter(1, 9)

		assert.False(t, ok)
	})

	t.Run("Incomparable references are skipped", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 30, Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1)), Confidence: 0.8,
		})

		_, ok := tmap.CharacterAgeInChapter(1, 2)

		assert.False(t, ok)
	})

	t.Run("Repeated queries return identical results", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(500)})
		tmap.AddAgeReference(&model.AgeReference{
			EntityID: 1, Age: 30, Chapter: 1, Time: model.RelativeTime(0), Confidence: 0.8,
		})

		first, ok1 := tmap.CharacterAgeInChapter(1, 2)
		second, ok2 := tmap.CharacterAgeInChapter(1, 2)

		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	})
}

func TestStoryTimeGapHours(t *testing.T) {
	t.Run("Absolute gap", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1))})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.AbsoluteTime(date(2020, time.January, 3))})

		gap, ok := tmap.StoryTimeGapHours(1, 2)

		require.True(t, ok)
		assert.Equal(t, 48.0, gap)
	})

	t.Run("Relative gap is signed", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(10)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(7)})

		gap, ok := tmap.StoryTimeGapHours(1, 2)

		require.True(t, ok)
		assert.Equal(t, -72.0, gap)
	})

	t.Run("Synthetic absolute compares against relative", func(t *testing.T) {
		tmap := newTestMap()
		epoch := date(2000, time.January, 1)
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.SyntheticAbsoluteTime(epoch, 2)})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})

		gap, ok := tmap.StoryTimeGapHours(1, 2)

		require.True(t, ok)
		assert.Equal(t, 72.0, gap)
	})

	t.Run("Genuine absolute against relative is unknown", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.AbsoluteTime(date(2020, time.January, 1))})
		tmap.AddSlice(2, &model.TemporalSlice{Chapter: 2, Time: model.RelativeTime(5)})

		_, ok := tmap.StoryTimeGapHours(1, 2)

		assert.False(t, ok)
	})

	t.Run("Unmapped chapter is unknown", func(t *testing.T) {
		tmap := newTestMap()
		tmap.AddSlice(1, &model.TemporalSlice{Chapter: 1, Time: model.RelativeTime(0)})

		_, ok := tmap.StoryTimeGapHours(1, 2)

		assert.False(t, ok)
	})
}

func TestNewTemporalMapFromTimeline(t *testing.T) {
	t.Run("Builds slices from events", func(t *testing.T) {
		events := []*model.TimelineEvent{
			{Chapter: 1, DiscoursePosition: 1, Time: model.AbsoluteTime(date(1985, time.March, 15)), NarrativeOrder: model.NarrativeChronological, Confidence: 0.8},
			{Chapter: 2, DiscoursePosition: 2, Time: model.AbsoluteTime(date(1970, time.June, 1)), NarrativeOrder: model.NarrativeAnalepsis, Confidence: 0.7},
		}

		tmap := NewTemporalMapFromTimeline(events, model.DefaultFailSafePolicy())

		assert.Equal(t, date(1985, time.March, 15), tmap.StoryTime(1).Date)
		assert.Equal(t, model.NarrativeAnalepsis, tmap.NarrativeType(2))
	})

	t.Run("Keeps the highest confidence event per chapter", func(t *testing.T) {
		events := []*model.TimelineEvent{
			{Chapter: 1, Time: model.RelativeTime(3), Confidence: 0.5},
			{Chapter: 1, Time: model.RelativeTime(9), Confidence: 0.9},
			{Chapter: 1, Time: model.RelativeTime(1), Confidence: 0.4},
		}

		tmap := NewTemporalMapFromTimeline(events, model.DefaultFailSafePolicy())

		assert.Equal(t, 9, tmap.StoryTime(1).DayOffset)
	})

	t.Run("First event wins on equal confidence", func(t *testing.T) {
		events := []*model.TimelineEvent{
			{Chapter: 1, Time: model.RelativeTime(3), Confidence: 0.5},
			{Chapter: 1, Time: model.RelativeTime(9), Confidence: 0.5},
		}

		tmap := NewTemporalMapFromTimeline(events, model.DefaultFailSafePolicy())

		assert.Equal(t, 3, tmap.StoryTime(1).DayOffset)
	})
}
