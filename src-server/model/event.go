package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/uptrace/bun"
)

// ErrValidation marks input rejections so the HTTP layer can answer 400
// instead of treating them as store failures.
var ErrValidation = errors.New("invalid input")

type EventIDCtxKeyType string

const EventIDCtxKey EventIDCtxKeyType = "event-id"

type RegistrationStatusType string

const (
	REGISTRATION_STATUS_OPEN   = RegistrationStatusType("open")
	REGISTRATION_STATUS_CLOSED = RegistrationStatusType("closed")
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`        // required
	Name        string `bun:"name,notnull"` // required
	Date        string `bun:"date,notnull"` // required, ISO yyyy-mm-dd
	Time        string `bun:"time"`
	Location    string `bun:"location"`
	Description string `bun:"description"`

	DeadlineUnixUTC int64 `bun:"deadline,notnull"` // required

	PaymentLink  string `bun:"payment_link"`
	WebhookURL   string `bun:"webhook_url"`
	ImageURL     string `bun:"image_url"`
	CourseMapURL string `bun:"course_map_url"`

	RegistrationStatus RegistrationStatusType `bun:"registration_status,notnull,type:varchar"` // required

	CreatedAtUnixUTC int64 `bun:"created_at,notnull"`
	UpdatedAtUnixUTC int64 `bun:"updated_at"`

	Categories   []*EventCategory    `bun:"rel:has-many,join:id=event_id"`
	InfoSections []*EventInfoSection `bun:"rel:has-many,join:id=event_id"`
	Sponsors     []*EventSponsor     `bun:"rel:has-many,join:id=event_id"`
}

var _ bun.AfterDeleteHook = (*Event)(nil)

// Cleanup categories, info sections and sponsors; the admin delete path
// relies on this instead of leaving orphaned child rows behind.
func (e *Event) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("(*Event).AfterDelete: db is nil")
	}

	deleteChildren := func(eventIDs []string) error {
		for _, childModel := range []interface{}{
			(*EventCategory)(nil),
			(*EventInfoSection)(nil),
			(*EventSponsor)(nil),
		} {
			if _, err := query.DB().NewDelete().
				Model(childModel).
				Where("event_id IN (?)", bun.In(eventIDs)).
				Exec(ctx); err != nil {
				return fmt.Errorf("(*Event).AfterDelete: can't delete child rows: %w", err)
			}
		}
		return nil
	}

	switch eventID := ctx.Value(EventIDCtxKey).(type) {
	case string:
		if eventID == "" {
			return fmt.Errorf("(*Event).AfterDelete: event id is blank")
		}
		return deleteChildren([]string{eventID})
	case []string:
		if len(eventID) == 0 {
			return fmt.Errorf("(*Event).AfterDelete: event ids are empty")
		}
		return deleteChildren(eventID)
	case nil:
		return fmt.Errorf("(*Event).AfterDelete: event id is nil")
	default:
		return fmt.Errorf("(*Event).AfterDelete: wrong event id type | type=%T", eventID)
	}
}

// Upsert the event row to the database. Child collections are handled
// separately by ReplaceChildren.
func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	if e.RegistrationStatus == "" {
		e.RegistrationStatus = REGISTRATION_STATUS_OPEN
	}
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank: %w", ErrValidation)
	case e.Name == "":
		return fmt.Errorf("(*Event).Upsert: name is blank: %w", ErrValidation)
	case e.Date == "":
		return fmt.Errorf("(*Event).Upsert: date is blank: %w", ErrValidation)
	case e.DeadlineUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: deadline is blank: %w", ErrValidation)
	case e.RegistrationStatus != REGISTRATION_STATUS_OPEN &&
		e.RegistrationStatus != REGISTRATION_STATUS_CLOSED:
		return fmt.Errorf("(*Event).Upsert: invalid registration status %q: %w", e.RegistrationStatus, ErrValidation)
	}
	for _, u := range []string{e.PaymentLink, e.WebhookURL, e.ImageURL, e.CourseMapURL} {
		if u == "" {
			continue
		}
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("(*Event).Upsert: url is invalid: %w", ErrValidation)
		}
	}
	if e.CreatedAtUnixUTC == 0 {
		e.CreatedAtUnixUTC = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		// created_at is write-once; edits rebuild the struct with a zero
		// value there and must not restamp the stored one
		e.UpdatedAtUnixUTC = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			ExcludeColumn("created_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// ReplaceChildren swaps out every child row for this event with the given
// in-memory lists, assigning each a zero-based order matching its position.
// No diffing; the old rows are always dropped wholesale. Run it inside the
// same transaction as Upsert so a failure can't leave the collections empty.
func (e *Event) ReplaceChildren(
	ctx context.Context,
	db bun.IDB,
	categories []*EventCategory,
	infoSections []*EventInfoSection,
	sponsors []*EventSponsor,
) error {
	if e.ID == "" {
		return fmt.Errorf("(*Event).ReplaceChildren: event id is blank")
	}

	for _, childModel := range []interface{}{
		(*EventCategory)(nil),
		(*EventInfoSection)(nil),
		(*EventSponsor)(nil),
	} {
		if _, err := db.NewDelete().
			Model(childModel).
			Where("event_id = ?", e.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).ReplaceChildren: can't delete old child rows: %w", err)
		}
	}

	for i, category := range categories {
		category.EventID = e.ID
		category.DisplayOrder = i
		if err := category.Insert(ctx, db); err != nil {
			return fmt.Errorf("(*Event).ReplaceChildren: %w", err)
		}
	}
	for i, infoSection := range infoSections {
		infoSection.EventID = e.ID
		infoSection.DisplayOrder = i
		if err := infoSection.Insert(ctx, db); err != nil {
			return fmt.Errorf("(*Event).ReplaceChildren: %w", err)
		}
	}
	for i, sponsor := range sponsors {
		sponsor.EventID = e.ID
		sponsor.DisplayOrder = i
		if err := sponsor.Insert(ctx, db); err != nil {
			return fmt.Errorf("(*Event).ReplaceChildren: %w", err)
		}
	}

	return nil
}

// RegistrationOpenAt layers the two open/closed signals: the persisted status
// flag and the locally computed deadline. Either one can close registration;
// both must hold for it to be open.
func (e *Event) RegistrationOpenAt(now time.Time) bool {
	if e.RegistrationStatus != REGISTRATION_STATUS_OPEN {
		return false
	}
	return now.UTC().Unix() < e.DeadlineUnixUTC
}

// Load one event with all three child collections, ordered for display.
// Returns nil when the id has no matching row.
func GetEventWithChildren(ctx context.Context, db bun.IDB, id string) (*Event, error) {
	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetEventWithChildren: %w", err)
	}
	if !exists {
		slog.Debug("event not found", "id", id)
		return nil, nil
	}

	eventModel := new(Event)
	if err := db.NewSelect().
		Model(eventModel).
		Where("event.id = ?", id).
		Relation("Categories", sortByDisplayOrder).
		Relation("InfoSections", sortByDisplayOrder).
		Relation("Sponsors", sortByDisplayOrder).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("GetEventWithChildren: %w", err)
	}
	return eventModel, nil
}

func sortByDisplayOrder(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("display_order ASC")
}
