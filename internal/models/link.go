package models

import (
	"time"
)

// Link maps a short code to a destination URL. Code and Destination are
// immutable after creation; VisitCount and LastVisitedAt change only through
// id-scoped updates in the store.
type Link struct {
	ID            int64      `gorm:"primaryKey;type:bigint" json:"id"`
	Code          string     `gorm:"type:varchar(12);uniqueIndex;not null" json:"code"`
	Destination   string     `gorm:"type:text;not null" json:"destination"`
	VisitCount    int64      `gorm:"not null;default:0" json:"visit_count"`
	LastVisitedAt *time.Time `json:"last_visited_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
