package model

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Race category of an event (e.g. "U-4 Balance Bike"), exclusively owned by
// its event and replaced wholesale on every edit.
type EventCategory struct {
	bun.BaseModel `bun:"table:event_categories"`

	ID           string          `bun:"id,pk"`            // required
	EventID      string          `bun:"event_id,notnull"` // required
	Name         string          `bun:"name,notnull"`     // required
	Price        decimal.Decimal `bun:"price,notnull"`    // required, >= 0
	DisplayOrder int             `bun:"display_order,notnull"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id"`
}

func (c *EventCategory) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("(*EventCategory).Insert: id is blank: %w", ErrValidation)
	case c.EventID == "":
		return fmt.Errorf("(*EventCategory).Insert: event id is blank: %w", ErrValidation)
	case c.Name == "":
		return fmt.Errorf("(*EventCategory).Insert: name is blank: %w", ErrValidation)
	case c.Price.IsNegative():
		return fmt.Errorf("(*EventCategory).Insert: price is negative: %w", ErrValidation)
	}
	if _, err := db.NewInsert().
		Model(c).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventCategory).Insert: %w", err)
	}
	return nil
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Entry fee rendered the way the site shows it, e.g. "₹1,499".
func (c *EventCategory) FormattedPrice() string {
	return inrPrinter.Sprintf("₹%v", number.Decimal(c.Price.InexactFloat64()))
}
