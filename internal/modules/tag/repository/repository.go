package repository

import (
	"context"

	"anoa.com/folio/internal/entity"
	"gorm.io/gorm"
)

// TagUsage is a tag with the number of posts carrying it.
type TagUsage struct {
	entity.Tag
	Posts int64 `json:"posts"`
}

type TagRepository interface {
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) TagRepository
	ListByProfile(ctx context.Context, username string, onlyPublished bool) ([]*TagUsage, error)
	ReplaceForPost(ctx context.Context, post *entity.Post, values []string) ([]entity.PostTag, error)
	PruneOrphans(ctx context.Context, username string) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) ListByProfile(ctx context.Context, username string, onlyPublished bool) ([]*TagUsage, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Tag{}).
		Select("tags.*, COUNT(post_tags.id) AS posts").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("tags.profile_username = ?", username)

	if onlyPublished {
		query = query.Where("posts.published = ?", true)
	}

	var tags []*TagUsage
	if err := query.
		Group("tags.id").
		Order("posts DESC").
		Order("tags.value ASC").
		Scan(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ReplaceForPost sets the tags of post to values, in order. Tags are created
// on first use and shared by all posts of the profile.
func (r *tagRepository) ReplaceForPost(ctx context.Context, post *entity.Post, values []string) ([]entity.PostTag, error) {
	db := r.db.WithContext(ctx)

	if err := db.Where("post_id = ?", post.ID).Delete(&entity.PostTag{}).Error; err != nil {
		return nil, err
	}

	assignments := make([]entity.PostTag, 0, len(values))
	for i, value := range values {
		tag := entity.Tag{ProfileUsername: post.ProfileUsername, Value: value}
		if err := db.Omit("Profile").
			Where(entity.Tag{ProfileUsername: post.ProfileUsername, Value: value}).
			FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}

		assignment := entity.PostTag{PostID: post.ID, TagID: tag.ID, Order: i}
		if err := db.Omit("Tag").Create(&assignment).Error; err != nil {
			return nil, err
		}
		assignment.Tag = &tag
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// PruneOrphans removes tags of the profile that no post carries anymore.
func (r *tagRepository) PruneOrphans(ctx context.Context, username string) error {
	used := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.PostTag{}).
		Select("tag_id")
	return r.db.WithContext(ctx).
		Where("profile_username = ? AND id NOT IN (?)", username, used).
		Delete(&entity.Tag{}).Error
}
