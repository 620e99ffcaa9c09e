package entity

import (
	"time"
)

type Base struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Archivable marks rows the retention sweeper flags once they go stale.
type Archivable struct {
	Archived   bool       `db:"archived"`
	ArchivedAt *time.Time `db:"archived_at"`
}
