package model

import (
	"github.com/uptrace/bun"
)

// Admin panel login session, keyed by the secret stored in the browser
// cookie.
type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret           string `bun:"secret,pk"`          // required
	CreatedAtUnixUTC int64  `bun:"created_at,notnull"` // required
}
