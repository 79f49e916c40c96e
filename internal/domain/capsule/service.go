package capsule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"capsule/internal/pkg/utils"
	"capsule/internal/pkg/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create builds a capsule from the request plus already-recorded attachment
// IDs (cover and ordered media). Slug defaults to a slugified title.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateCapsuleRequest, coverID string, mediaIDs []string) (*Capsule, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("invalid capsule: %v", errs)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	now := time.Now()
	c := &Capsule{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Visibility:  visibility,
		UnlockAt:    req.UnlockAt,
		CoverID:     coverID,
		MediaIDs:    utils.MediaIDsToString(mediaIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_capsules_owner_slug" {
				return nil, ErrSlugTaken
			}
		}
		return nil, err
	}

	return c, nil
}

// Get returns a capsule applying visibility and seal rules for the viewer.
// Private capsules are invisible to non-owners; sealed capsules surface
// ErrCapsuleSealed to everyone but the owner until the unlock time passes.
func (s *Service) Get(ctx context.Context, id string, viewerID int64) (*Capsule, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID == viewerID {
		return c, nil
	}
	if c.Visibility == VisibilityPrivate {
		return nil, ErrCapsuleNotFound
	}
	if c.Sealed(time.Now()) {
		return nil, ErrCapsuleSealed
	}
	return c, nil
}

// Update applies partial metadata changes. Owner only.
func (s *Service) Update(ctx context.Context, id string, ownerID int64, req UpdateCapsuleRequest) (*Capsule, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("invalid capsule update: %v", errs)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Visibility != nil {
		c.Visibility = *req.Visibility
	}
	if req.UnlockAt != nil {
		c.UnlockAt = req.UnlockAt
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a capsule record. Attachments stay; they may be shared.
func (s *Service) Delete(ctx context.Context, id string, ownerID int64) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

// ListByOwner returns all capsules of an owner, sealed or not.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*Capsule, error) {
	return s.repo.ListByOwnerID(ctx, ownerID)
}

// Slugify lowers a title into a url-safe slug.
func Slugify(title string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, strings.TrimSpace(title))
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if len(slug) > 80 {
		slug = slug[:80]
	}
	if slug == "" {
		return "capsule"
	}
	return slug
}
