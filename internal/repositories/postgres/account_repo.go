package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/utils"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	LatestRecordID(ctx context.Context, accountID, formType string) (string, bool, error)
	AppendRecord(ctx context.Context, accountID, formType, indexKey, recordID string) error
	RecordIndex(ctx context.Context, accountID, formType string) (*models.AccountRecordIndex, error)
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *accountRepo) HandleExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("handle = ?", handle).
		Count(&count).Error
	return count > 0, err
}

func (r *accountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *accountRepo) RecordIndex(ctx context.Context, accountID, formType string) (*models.AccountRecordIndex, error) {
	var idx models.AccountRecordIndex
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND form_type = ?", accountID, formType).
		Take(&idx).Error
	if err != nil {
		return nil, translate(err)
	}
	return &idx, nil
}

func (r *accountRepo) LatestRecordID(ctx context.Context, accountID, formType string) (string, bool, error) {
	idx, err := r.RecordIndex(ctx, accountID, formType)
	if errors.Is(err, utils.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	id, ok := idx.Last()
	return id, ok, nil
}

// AppendRecord is a plain read-modify-write; two concurrent appends for the
// same account and form type can lose one id.
func (r *accountRepo) AppendRecord(ctx context.Context, accountID, formType, indexKey, recordID string) error {
	db := r.db.WithContext(ctx)

	var idx models.AccountRecordIndex
	err := db.Where("account_id = ? AND form_type = ?", accountID, formType).Take(&idx).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		idx = models.AccountRecordIndex{
			AccountID: accountID,
			FormType:  formType,
			IndexKey:  indexKey,
			RecordIDs: []string{recordID},
			UpdatedAt: time.Now().UTC(),
		}
		return translate(db.Create(&idx).Error)
	case err != nil:
		return err
	}

	idx.RecordIDs = append(idx.RecordIDs, recordID)
	idx.UpdatedAt = time.Now().UTC()
	return db.Model(&models.AccountRecordIndex{}).
		Where("account_id = ? AND form_type = ?", accountID, formType).
		Updates(map[string]any{
			"record_ids": idx.RecordIDs,
			"updated_at": idx.UpdatedAt,
		}).Error
}
