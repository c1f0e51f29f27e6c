package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/chronicle/helper"
	"github.com/siherrmann/chronicle/model"
	"github.com/siherrmann/chronicle/sql"
)

// EventsDBHandlerFunctions defines the interface for timeline event database operations.
type EventsDBHandlerFunctions interface {
	InsertEvent(event *model.TimelineEvent) error
	DeleteEvent(id int64) error
	DeleteEventsByDocument(documentID int64) error
	SelectEvent(id int64) (*model.TimelineEvent, error)
	SelectEventsByDocument(documentID int64) ([]*model.TimelineEvent, error)
	SelectEventsByChapter(documentID int64, chapter int) ([]*model.TimelineEvent, error)
}

// EventsDBHandler handles timeline event database operations
type EventsDBHandler struct {
	db *helper.Database
}

// NewEventsDBHandler creates a new timeline events database handler.
// It initializes the database connection and loads event-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEventsDBHandler(db *helper.Database, force bool) (*EventsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	eventsDbHandler := &EventsDBHandler{
		db: db,
	}

	err := sql.LoadEventsSql(eventsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load events sql", err)
	}

	err = eventsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EventsDBHandler")

	return eventsDbHandler, nil
}

// CreateTable creates the 'timeline_events' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *EventsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_events();`)
	if err != nil {
		log.Panicf("error initializing timeline_events table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table timeline_events")

	return nil
}

// Story time is persisted as a tagged value: a kind column plus nullable date
// and day offset columns.
const (
	timeKindUnknown  = "unknown"
	timeKindAbsolute = "absolute"
	timeKindRelative = "relative"
)

func storyTimeToRow(t model.StoryTime) (kind string, date *time.Time, dayOffset *int, synthetic bool) {
	switch t.Kind {
	case model.TimeAbsolute:
		d := t.Date
		kind = timeKindAbsolute
		date = &d
		if t.Synthetic {
			o := t.DayOffset
			dayOffset = &o
			synthetic = true
		}
	case model.TimeRelative:
		o := t.DayOffset
		kind = timeKindRelative
		dayOffset = &o
	default:
		kind = timeKindUnknown
	}
	return kind, date, dayOffset, synthetic
}

func storyTimeFromRow(kind string, date *time.Time, dayOffset *int, synthetic bool) model.StoryTime {
	switch kind {
	case timeKindAbsolute:
		if date == nil {
			return model.UnknownTime()
		}
		t := model.AbsoluteTime(*date)
		if synthetic && dayOffset != nil {
			t.DayOffset = *dayOffset
			t.Synthetic = true
		}
		return t
	case timeKindRelative:
		if dayOffset == nil {
			return model.UnknownTime()
		}
		return model.RelativeTime(*dayOffset)
	default:
		return model.UnknownTime()
	}
}

// InsertEvent inserts a new timeline event
func (h *EventsDBHandler) InsertEvent(event *model.TimelineEvent) error {
	kind, date, dayOffset, synthetic := storyTimeToRow(event.Time)

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_event($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		event.DocumentID,
		event.Description,
		event.Chapter,
		nullableInt(event.Paragraph),
		event.DiscoursePosition,
		kind,
		date,
		dayOffset,
		synthetic,
		string(event.NarrativeOrder),
		event.RelativeTo,
		pq.Array(event.EntityIDs),
		event.Confidence,
	)

	return h.scanEvent(row, event)
}

// DeleteEvent deletes a timeline event by ID
func (h *EventsDBHandler) DeleteEvent(id int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_event($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteEventsByDocument deletes all timeline events of a document
func (h *EventsDBHandler) DeleteEventsByDocument(documentID int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_events_by_document($1)`,
		documentID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectEvent retrieves a timeline event by ID
func (h *EventsDBHandler) SelectEvent(id int64) (*model.TimelineEvent, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_event($1)`,
		id,
	)

	event := &model.TimelineEvent{}
	err := h.scanEvent(row, event)
	if err != nil {
		return nil, err
	}

	return event, nil
}

// SelectEventsByDocument retrieves all timeline events of a document in
// discourse order
func (h *EventsDBHandler) SelectEventsByDocument(documentID int64) ([]*model.TimelineEvent, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_events_by_document($1)`,
		documentID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return h.scanEvents(rows)
}

// SelectEventsByChapter retrieves the timeline events of one chapter
func (h *EventsDBHandler) SelectEventsByChapter(documentID int64, chapter int) ([]*model.TimelineEvent, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_events_by_chapter($1, $2)`,
		documentID,
		chapter,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return h.scanEvents(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (h *EventsDBHandler) scanEvent(row rowScanner, event *model.TimelineEvent) error {
	var kind string
	var date *time.Time
	var dayOffset *int
	var synthetic bool
	var paragraph *int
	var narrativeOrder string

	err := row.Scan(
		&event.ID,
		&event.DocumentID,
		&event.Description,
		&event.Chapter,
		&paragraph,
		&event.DiscoursePosition,
		&kind,
		&date,
		&dayOffset,
		&synthetic,
		&narrativeOrder,
		&event.RelativeTo,
		pq.Array(&event.EntityIDs),
		&event.Confidence,
		&event.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	if paragraph != nil {
		event.Paragraph = *paragraph
	}
	event.Time = storyTimeFromRow(kind, date, dayOffset, synthetic)
	event.NarrativeOrder = model.NarrativeType(narrativeOrder)

	return nil
}

func (h *EventsDBHandler) scanEvents(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]*model.TimelineEvent, error) {
	var events []*model.TimelineEvent
	for rows.Next() {
		event := &model.TimelineEvent{}
		if err := h.scanEvent(rows, event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return events, nil
}

func nullableInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
