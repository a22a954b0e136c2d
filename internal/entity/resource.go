package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resource columns shared by every resource kind. Each kind maps its form
// fields onto a subset of these.
const (
	ColumnTitle        = "title"
	ColumnYear         = "year"
	ColumnOrganization = "organization"
	ColumnLocation     = "location"
	ColumnStartDate    = "start_date"
	ColumnEndDate      = "end_date"
	ColumnURL          = "url"
	ColumnDescription  = "description"
)

// Resource is one CV entry (a project, an award, a job, ...). Kind decides
// which columns are meaningful.
type Resource struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind            string    `gorm:"size:30;not null;index:idx_resources_owner,priority:2" json:"kind"`
	ProfileUsername string    `gorm:"size:15;not null;index:idx_resources_owner,priority:1" json:"profile_username"`
	Profile         *Profile  `gorm:"foreignKey:ProfileUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Published       bool      `gorm:"not null;default:false" json:"published"`
	Title           *string   `gorm:"size:255" json:"-"`
	Year            *string   `gorm:"size:20" json:"-"`
	Organization    *string   `gorm:"size:255" json:"-"`
	Location        *string   `gorm:"size:255" json:"-"`
	StartDate       *string   `gorm:"size:20" json:"-"`
	EndDate         *string   `gorm:"size:30" json:"-"`
	URL             *string   `gorm:"type:text" json:"-"`
	Description     *string   `gorm:"type:text" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// Column returns a pointer to the field backing the named column, or nil.
func (r *Resource) Column(name string) **string {
	switch name {
	case ColumnTitle:
		return &r.Title
	case ColumnYear:
		return &r.Year
	case ColumnOrganization:
		return &r.Organization
	case ColumnLocation:
		return &r.Location
	case ColumnStartDate:
		return &r.StartDate
	case ColumnEndDate:
		return &r.EndDate
	case ColumnURL:
		return &r.URL
	case ColumnDescription:
		return &r.Description
	}
	return nil
}
