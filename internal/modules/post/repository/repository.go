package repository

import (
	"context"
	"errors"

	"anoa.com/folio/internal/entity"
	tagRepo "anoa.com/folio/internal/modules/tag/repository"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postColumns are replaced as a whole on update.
var postColumns = []string{"title", "content", "by", "resource_kind", "resource_id"}

type ListOptions struct {
	OnlyPublished bool
	ResourceID    *uuid.UUID
	Tag           string
}

type PostRepository interface {
	ListByProfile(ctx context.Context, username string, opts ListOptions) ([]*entity.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	MustFindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post, tags []string) error
	Update(ctx context.Context, post *entity.Post, tags []string) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type postRepository struct {
	db   *gorm.DB
	tags tagRepo.TagRepository
}

func NewPostRepository(db *gorm.DB, tags tagRepo.TagRepository) PostRepository {
	return &postRepository{db: db, tags: tags}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tags.Tag")
}

func (r *postRepository) ListByProfile(ctx context.Context, username string, opts ListOptions) ([]*entity.Post, error) {
	query := preloadTags(r.db.WithContext(ctx)).
		Where("posts.profile_username = ?", username)

	if opts.OnlyPublished {
		query = query.Where("posts.published = ?", true)
	}
	if opts.ResourceID != nil {
		query = query.Where("posts.resource_id = ?", *opts.ResourceID)
	}
	if opts.Tag != "" {
		tagged := r.db.Session(&gorm.Session{NewDB: true}).
			Model(&entity.PostTag{}).
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.profile_username = ? AND tags.value = ?", username, opts.Tag)
		query = query.Where("posts.id IN (?)", tagged)
	}

	var posts []*entity.Post
	if err := query.
		Order("posts.position ASC").
		Order("posts.created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID returns nil without error when the post does not exist.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	err := preloadTags(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) MustFindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post", id.String())
	}
	return post, nil
}

// Create inserts the post and its tag assignments in one transaction.
func (r *postRepository) Create(ctx context.Context, post *entity.Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return database.TranslateError(err)
		}

		assignments, err := r.tags.WithTx(tx).ReplaceForPost(ctx, post, tags)
		if err != nil {
			return database.TranslateError(err)
		}
		post.Tags = assignments
		return nil
	})
}

// Update replaces the content, reference and tags of the post.
func (r *postRepository) Update(ctx context.Context, post *entity.Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(post).
			Omit(clause.Associations).
			Select(postColumns).
			Updates(post)
		if res.Error != nil {
			return database.TranslateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("post", post.ID.String())
		}

		tagRepository := r.tags.WithTx(tx)
		assignments, err := tagRepository.ReplaceForPost(ctx, post, tags)
		if err != nil {
			return database.TranslateError(err)
		}
		post.Tags = assignments
		return tagRepository.PruneOrphans(ctx, post.ProfileUsername)
	})
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post entity.Post
		if err := tx.Select("id", "profile_username").First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("post", id.String())
			}
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&entity.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Post{}, "id = ?", id).Error; err != nil {
			return err
		}
		return r.tags.WithTx(tx).PruneOrphans(ctx, post.ProfileUsername)
	})
}

func (r *postRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", id).
		Update("published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("post", id.String())
	}
	return nil
}
