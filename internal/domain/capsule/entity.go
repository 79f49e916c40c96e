package capsule

import "time"

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

// Capsule is a shared memory container: text plus attached media, optionally
// sealed until an unlock time.
type Capsule struct {
	ID          string     `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     int64      `gorm:"column:owner_id;index;uniqueIndex:idx_capsules_owner_slug" json:"owner_id"`
	Slug        string     `gorm:"column:slug;uniqueIndex:idx_capsules_owner_slug" json:"slug"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Visibility  Visibility `gorm:"column:visibility" json:"visibility"`
	UnlockAt    *time.Time `gorm:"column:unlock_at" json:"unlock_at,omitempty"`
	CoverID     string     `gorm:"column:cover_id" json:"cover_id,omitempty"`
	MediaIDs    string     `gorm:"column:media_ids" json:"-"` // JSON array of attachment IDs
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Capsule) TableName() string { return "capsules" }

// Sealed reports whether the capsule is still locked at the given time.
func (c *Capsule) Sealed(now time.Time) bool {
	return c.UnlockAt != nil && now.Before(*c.UnlockAt)
}
