package model

import (
	"context"
	"fmt"
	"net/url"

	"github.com/uptrace/bun"
)

type EventSponsor struct {
	bun.BaseModel `bun:"table:event_sponsors"`

	ID           string `bun:"id,pk"`            // required
	EventID      string `bun:"event_id,notnull"` // required
	Name         string `bun:"name,notnull"`     // required
	LogoURL      string `bun:"logo_url"`
	DisplayOrder int    `bun:"display_order,notnull"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id"`
}

func (s *EventSponsor) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("(*EventSponsor).Insert: id is blank: %w", ErrValidation)
	case s.EventID == "":
		return fmt.Errorf("(*EventSponsor).Insert: event id is blank: %w", ErrValidation)
	case s.Name == "":
		return fmt.Errorf("(*EventSponsor).Insert: name is blank: %w", ErrValidation)
	}
	if s.LogoURL != "" {
		if _, err := url.ParseRequestURI(s.LogoURL); err != nil {
			return fmt.Errorf("(*EventSponsor).Insert: logo url is invalid: %w", ErrValidation)
		}
	}
	if _, err := db.NewInsert().
		Model(s).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventSponsor).Insert: %w", err)
	}
	return nil
}
