package repository

import (
	"context"
	"errors"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/modules/resource/kind"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOptions struct {
	OnlyPublished bool
}

// ResourceRepository stores resources of every kind. Each call is scoped to
// the kind described by d.
type ResourceRepository interface {
	ListByProfile(ctx context.Context, d *kind.Descriptor, username string, opts ListOptions) ([]*entity.Resource, error)
	FindByID(ctx context.Context, d *kind.Descriptor, id uuid.UUID) (*entity.Resource, error)
	MustFindByID(ctx context.Context, d *kind.Descriptor, id uuid.UUID) (*entity.Resource, error)
	Create(ctx context.Context, d *kind.Descriptor, username string, values map[string]*string, published bool) (*entity.Resource, error)
	Update(ctx context.Context, d *kind.Descriptor, id uuid.UUID, values map[string]*string) (*entity.Resource, error)
	Delete(ctx context.Context, d *kind.Descriptor, id uuid.UUID) error
	SetPublished(ctx context.Context, d *kind.Descriptor, id uuid.UUID, published bool) error
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) ListByProfile(ctx context.Context, d *kind.Descriptor, username string, opts ListOptions) ([]*entity.Resource, error) {
	query := r.db.WithContext(ctx).
		Where("kind = ? AND profile_username = ?", d.Name, username)

	if opts.OnlyPublished {
		query = query.Where("published = ?", true)
	}
	for _, order := range d.OrderBy {
		query = query.Order(order)
	}

	var resources []*entity.Resource
	if err := query.Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

// FindByID returns nil without error when no resource of the kind has id.
func (r *resourceRepository) FindByID(ctx context.Context, d *kind.Descriptor, id uuid.UUID) (*entity.Resource, error) {
	var resource entity.Resource
	err := r.db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, d.Name).
		First(&resource).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) MustFindByID(ctx context.Context, d *kind.Descriptor, id uuid.UUID) (*entity.Resource, error) {
	resource, err := r.FindByID(ctx, d, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, apperror.NotFound(d.Name, id.String())
	}
	return resource, nil
}

func (r *resourceRepository) Create(ctx context.Context, d *kind.Descriptor, username string, values map[string]*string, published bool) (*entity.Resource, error) {
	resource := &entity.Resource{
		Kind:            d.Name,
		ProfileUsername: username,
		Published:       published,
	}
	d.Assign(resource, values)

	if err := r.db.WithContext(ctx).Omit("Profile").Create(resource).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return resource, nil
}

// Update replaces every field of the kind. Fields absent from values are
// cleared.
func (r *resourceRepository) Update(ctx context.Context, d *kind.Descriptor, id uuid.UUID, values map[string]*string) (*entity.Resource, error) {
	resource, err := r.MustFindByID(ctx, d, id)
	if err != nil {
		return nil, err
	}
	d.Assign(resource, values)

	if err := r.db.WithContext(ctx).
		Model(resource).
		Select(d.Columns()).
		Updates(resource).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return resource, nil
}

// Delete removes the resource and clears the reference of every post that
// pointed at it in the same transaction.
func (r *resourceRepository) Delete(ctx context.Context, d *kind.Descriptor, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Post{}).
			Where("resource_kind = ? AND resource_id = ?", d.Name, id).
			Updates(map[string]any{"resource_kind": nil, "resource_id": nil}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND kind = ?", id, d.Name).Delete(&entity.Resource{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(d.Name, id.String())
		}
		return nil
	})
}

func (r *resourceRepository) SetPublished(ctx context.Context, d *kind.Descriptor, id uuid.UUID, published bool) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Resource{}).
		Where("id = ? AND kind = ?", id, d.Name).
		Update("published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(d.Name, id.String())
	}
	return nil
}
