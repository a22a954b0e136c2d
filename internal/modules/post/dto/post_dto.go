package dto

import (
	"time"

	"anoa.com/folio/internal/entity"
	"github.com/google/uuid"
)

type TagResponse struct {
	ID    uuid.UUID `json:"id"` // assignment id, used when reordering
	Value string    `json:"value"`
	Order int       `json:"order"`
}

type PostResponse struct {
	ID        uuid.UUID           `json:"id"`
	Username  string              `json:"username"`
	Title     *string             `json:"title"`
	Content   *string             `json:"content"`
	By        *string             `json:"by"`
	Published bool                `json:"published"`
	Order     int                 `json:"order"`
	Resource  *entity.ResourceRef `json:"resource"`
	Tags      []TagResponse       `json:"tags"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type PostFilter struct {
	Tag        string `form:"tag"`
	ResourceID string `form:"resource_id"`
}

func NewPostResponse(p *entity.Post) *PostResponse {
	tags := make([]TagResponse, 0, len(p.Tags))
	for _, pt := range p.Tags {
		value := ""
		if pt.Tag != nil {
			value = pt.Tag.Value
		}
		tags = append(tags, TagResponse{ID: pt.ID, Value: value, Order: pt.Order})
	}

	return &PostResponse{
		ID:        p.ID,
		Username:  p.ProfileUsername,
		Title:     p.Title,
		Content:   p.Content,
		By:        p.By,
		Published: p.Published,
		Order:     p.Order,
		Resource:  p.Reference(),
		Tags:      tags,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
