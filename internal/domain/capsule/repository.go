package capsule

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Capsule) error
	GetByID(ctx context.Context, id string) (*Capsule, error)
	Update(ctx context.Context, c *Capsule) error
	Delete(ctx context.Context, id string) error
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Capsule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Capsule) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Capsule, error) {
	var c Capsule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCapsuleNotFound
	}
	return &c, err
}

func (r *repository) Update(ctx context.Context, c *Capsule) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Capsule{}).Error
}

func (r *repository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*Capsule, error) {
	var capsules []*Capsule
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&capsules).Error
	return capsules, err
}
