package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileUsername string     `gorm:"size:15;not null;index" json:"profile_username"`
	Profile         *Profile   `gorm:"foreignKey:ProfileUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title           *string    `gorm:"size:200" json:"title"`
	Content         *string    `gorm:"type:text" json:"content"`
	By              *string    `gorm:"size:100" json:"by"`
	Published       bool       `gorm:"not null;default:false" json:"published"`
	Order           int        `gorm:"column:position;not null;default:0" json:"order"`
	ResourceKind    *string    `gorm:"size:30" json:"resource_kind"`
	ResourceID      *uuid.UUID `gorm:"type:uuid;index" json:"resource_id"`
	Resource        *Resource  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Tags            []PostTag  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// ResourceRef points a post at exactly one resource of a given kind.
type ResourceRef struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// Reference returns the post's resource reference, or nil when it has none.
func (p *Post) Reference() *ResourceRef {
	if p.ResourceKind == nil || p.ResourceID == nil {
		return nil
	}
	return &ResourceRef{Kind: *p.ResourceKind, ID: *p.ResourceID}
}

// SetReference stores ref in both columns, or clears both when ref is nil.
func (p *Post) SetReference(ref *ResourceRef) {
	if ref == nil {
		p.ResourceKind = nil
		p.ResourceID = nil
		return
	}
	kind, id := ref.Kind, ref.ID
	p.ResourceKind = &kind
	p.ResourceID = &id
}
