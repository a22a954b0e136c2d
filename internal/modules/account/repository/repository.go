package repository

import (
	"context"
	"errors"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *entity.Account) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// FindByID returns nil without error when the account does not exist.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).
		Preload("Profiles").
		Where("id = ?", id).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	return database.TranslateError(r.db.WithContext(ctx).Omit("Profiles").Create(account).Error)
}

func (r *accountRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Update("email", email)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
