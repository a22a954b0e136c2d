package dto

import (
	"encoding/json"
	"time"

	"anoa.com/folio/internal/entity"
)

type Avatar struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type ProfileResponse struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	JobTitle    *string   `json:"job_title"`
	Location    *string   `json:"location"`
	Pronouns    *string   `json:"pronouns"`
	Website     *string   `json:"website"`
	Bio         *string   `json:"bio"`
	Avatar      *Avatar   `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProfileResponse(p *entity.Profile) *ProfileResponse {
	resp := &ProfileResponse{
		Username:    p.Username,
		DisplayName: p.DisplayName,
		JobTitle:    p.JobTitle,
		Location:    p.Location,
		Pronouns:    p.Pronouns,
		Website:     p.Website,
		Bio:         p.Bio,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Avatar != nil {
		var avatar Avatar
		if err := json.Unmarshal([]byte(*p.Avatar), &avatar); err == nil {
			resp.Avatar = &avatar
		}
	}
	return resp
}
