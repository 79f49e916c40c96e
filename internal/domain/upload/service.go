package upload

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Service records metadata for files the middleware has already written to
// disk. Parsing and validation happen earlier in the pipeline; here it is
// record in DB -> return ID + URL.
type Service struct {
	repo    Repository
	storage *Storage
}

func NewService(repo Repository, storage *Storage) *Service {
	return &Service{repo: repo, storage: storage}
}

// Record persists one attachment row per stored file, in arrival order.
func (s *Service) Record(ctx context.Context, ownerID int64, stored []*StoredFile) ([]*Attachment, error) {
	if len(stored) == 0 {
		return nil, ErrNoFiles
	}

	attachments := make([]*Attachment, 0, len(stored))
	for _, sf := range stored {
		info := s.storage.ProcessUploadedFile(sf)
		a := &Attachment{
			ID:           uuid.New().String(),
			OwnerID:      ownerID,
			OriginalName: sf.OriginalName,
			Filename:     info.Filename,
			FilePath:     info.FilePath,
			FileURL:      info.URL,
			MimeType:     info.MimeType,
			Size:         info.Size,
			CreatedAt:    time.Now(),
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("save attachment record: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

// GetByID returns attachment metadata by ID.
func (s *Service) GetByID(ctx context.Context, id string) (*Attachment, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the physical file and the DB record.
func (s *Service) Delete(ctx context.Context, id string, ownerID int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.OwnerID != ownerID {
		return ErrNotOwner
	}

	if absPath, err := s.storage.AbsolutePath(a.FilePath); err == nil {
		_ = os.Remove(absPath) // ignore error — file may already be gone
	}

	return s.repo.Delete(ctx, id)
}

// ListByOwner returns all attachments for an owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*Attachment, error) {
	return s.repo.ListByOwnerID(ctx, ownerID)
}
