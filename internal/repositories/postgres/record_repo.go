package postgres

import (
	"context"
	"time"

	"github.com/olfat123/profile-creator/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordRepository interface {
	Insert(ctx context.Context, rec *models.ProfileRecord) error
	UpdateContent(ctx context.Context, rec *models.ProfileRecord) error
	UpdateMetadata(ctx context.Context, id string, md datatypes.JSONMap) error
	SetThumbnail(ctx context.Context, id, attachmentID string) error

	GetByID(ctx context.Context, id string) (*models.ProfileRecord, error)
	GetBySlug(ctx context.Context, recordType, slug string) (*models.ProfileRecord, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type recordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Insert(ctx context.Context, rec *models.ProfileRecord) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

// UpdateContent rewrites the post-like columns and leaves metadata alone.
func (r *recordRepo) UpdateContent(ctx context.Context, rec *models.ProfileRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.ProfileRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"title":      rec.Title,
			"body":       rec.Body,
			"status":     rec.Status,
			"updated_at": rec.UpdatedAt,
		}).Error
}

func (r *recordRepo) UpdateMetadata(ctx context.Context, id string, md datatypes.JSONMap) error {
	return r.db.WithContext(ctx).
		Model(&models.ProfileRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"metadata":   md,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *recordRepo) SetThumbnail(ctx context.Context, id, attachmentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProfileRecord{}).
		Where("id = ?", id).
		Update("thumbnail_id", attachmentID).Error
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (*models.ProfileRecord, error) {
	var rec models.ProfileRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *recordRepo) GetBySlug(ctx context.Context, recordType, slug string) (*models.ProfileRecord, error) {
	var rec models.ProfileRecord
	err := r.db.WithContext(ctx).
		Where("record_type = ? AND slug = ?", recordType, slug).
		Take(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *recordRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProfileRecord{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
