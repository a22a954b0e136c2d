package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Username    string    `gorm:"size:15;uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"size:50;not null" json:"display_name"`
	JobTitle    *string   `gorm:"size:100" json:"job_title"`
	Location    *string   `gorm:"size:100" json:"location"`
	Pronouns    *string   `gorm:"size:30" json:"pronouns"`
	Website     *string   `gorm:"type:text" json:"website"`
	Bio         *string   `gorm:"type:text" json:"bio"`
	Avatar      *string   `gorm:"type:text" json:"avatar"` // JSON {"url": ..., "key": ...}
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
