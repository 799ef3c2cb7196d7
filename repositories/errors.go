package repositories

import (
	"errors"

	"github.com/taskboard-api/apperrors"
	"gorm.io/gorm"
)

// translate maps store errors onto the application error taxonomy
func translate(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound()
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(err, apperrors.CodeConflict, message)
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, message)
}
