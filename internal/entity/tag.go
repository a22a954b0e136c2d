package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileUsername string    `gorm:"size:15;not null;uniqueIndex:idx_tags_profile_value,priority:1" json:"profile_username"`
	Profile         *Profile  `gorm:"foreignKey:ProfileUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Value           string    `gorm:"size:50;not null;uniqueIndex:idx_tags_profile_value,priority:2" json:"value"`
	AssignedAt      time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// PostTag assigns a tag to a post at an explicit position.
type PostTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_tags_pair,priority:1" json:"post_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_tags_pair,priority:2" json:"tag_id"`
	Tag       *Tag      `gorm:"constraint:OnDelete:CASCADE" json:"tag,omitempty"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (pt *PostTag) BeforeCreate(tx *gorm.DB) (err error) {
	if pt.ID == uuid.Nil {
		pt.ID, err = uuid.NewV7()
	}
	return
}
