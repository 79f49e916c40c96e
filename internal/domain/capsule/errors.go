package capsule

import "errors"

var (
	ErrCapsuleNotFound = errors.New("capsule not found")
	ErrNotOwner        = errors.New("you do not own this capsule")
	ErrSlugTaken       = errors.New("you already have a capsule with this slug")
	ErrCapsuleSealed   = errors.New("capsule is sealed until its unlock time")
)
