package upload

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, id string) (*Attachment, error)
	Delete(ctx context.Context, id string) error
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Attachment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Attachment, error) {
	var a Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrAttachmentNotFound
	}
	return &a, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Attachment{}).Error
}

func (r *repository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*Attachment, error) {
	var attachments []*Attachment
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}
