package postgres

import (
	"errors"

	"github.com/olfat123/profile-creator/internal/utils"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the repository sentinels. The DB must be
// opened with gorm.Config{TranslateError: true} for duplicate detection.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(utils.ErrDuplicate, err)
	default:
		return err
	}
}
