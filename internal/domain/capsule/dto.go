package capsule

import "time"

type CreateCapsuleRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Slug        string     `json:"slug" validate:"omitempty,max=80"`
	Description string     `json:"description" validate:"max=5000"`
	Visibility  Visibility `json:"visibility" validate:"omitempty,oneof=private unlisted public"`
	UnlockAt    *time.Time `json:"unlock_at"`
}

type UpdateCapsuleRequest struct {
	Title       *string     `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=5000"`
	Visibility  *Visibility `json:"visibility" validate:"omitempty,oneof=private unlisted public"`
	UnlockAt    *time.Time  `json:"unlock_at"`
}
