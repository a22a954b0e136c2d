package repository

import (
	"context"
	"errors"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// editable lists the profile columns a full update replaces.
var editable = []string{"username", "display_name", "job_title", "location", "pronouns", "website", "bio", "avatar"}

type ProfileRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	MustFindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Profile, error)
	Create(ctx context.Context, profile *entity.Profile) error
	Update(ctx context.Context, profile *entity.Profile) error
	Delete(ctx context.Context, username string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUsername returns nil without error when no profile has username.
func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) MustFindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	profile, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("profile", username)
	}
	return profile, nil
}

func (r *profileRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(profile).Error)
}

// Update writes every editable column by id. A changed username is carried
// to resources, posts and tags by the ON UPDATE CASCADE foreign keys.
func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	res := r.db.WithContext(ctx).
		Model(profile).
		Select(editable).
		Updates(profile)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("profile", profile.Username)
	}
	return nil
}

// Delete removes the profile. Its resources, posts and tags go with it.
func (r *profileRepository) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&entity.Profile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("profile", username)
	}
	return nil
}
