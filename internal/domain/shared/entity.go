package shared

import "time"

// Record is the identity a store assigns on insert. Drafts such as
// partner.Customer have none; stored types embed one.
type Record struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
