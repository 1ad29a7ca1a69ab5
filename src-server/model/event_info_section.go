package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Expandable FAQ-style section on the event detail page. Owned by its event,
// replaced wholesale on every edit.
type EventInfoSection struct {
	bun.BaseModel `bun:"table:event_info_sections"`

	ID           string `bun:"id,pk"`            // required
	EventID      string `bun:"event_id,notnull"` // required
	Title        string `bun:"title,notnull"`    // required
	Content      string `bun:"content"`
	DisplayOrder int    `bun:"display_order,notnull"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id"`
}

func (s *EventInfoSection) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("(*EventInfoSection).Insert: id is blank: %w", ErrValidation)
	case s.EventID == "":
		return fmt.Errorf("(*EventInfoSection).Insert: event id is blank: %w", ErrValidation)
	case s.Title == "":
		return fmt.Errorf("(*EventInfoSection).Insert: title is blank: %w", ErrValidation)
	}
	if _, err := db.NewInsert().
		Model(s).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventInfoSection).Insert: %w", err)
	}
	return nil
}
