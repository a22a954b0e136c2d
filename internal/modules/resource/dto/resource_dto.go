package dto

import (
	"time"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/modules/resource/kind"
	"github.com/google/uuid"
)

type ResourceResponse struct {
	ID        uuid.UUID          `json:"id"`
	Kind      string             `json:"kind"`
	Username  string             `json:"username"`
	Published bool               `json:"published"`
	Fields    map[string]*string `json:"fields"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func NewResourceResponse(d *kind.Descriptor, r *entity.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:        r.ID,
		Kind:      r.Kind,
		Username:  r.ProfileUsername,
		Published: r.Published,
		Fields:    d.Values(r),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type KindResponse struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}
