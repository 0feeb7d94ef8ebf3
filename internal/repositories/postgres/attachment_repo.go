package postgres

import (
	"context"

	"github.com/olfat123/profile-creator/internal/models"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Insert(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Attachment, error)
}

type attachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) Insert(ctx context.Context, a *models.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attachmentRepo) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	var row models.Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *attachmentRepo) ListByAccount(ctx context.Context, accountID string) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
