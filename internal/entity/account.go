package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the owner of one or more profiles. Authentication lives outside
// this service; the account only anchors ownership and the email address.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Profiles  []Profile `gorm:"constraint:OnDelete:CASCADE" json:"profiles,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// Models lists every persisted type in dependency order for migrations.
func Models() []any {
	return []any{
		&Account{},
		&Profile{},
		&Resource{},
		&Post{},
		&Tag{},
		&PostTag{},
	}
}
