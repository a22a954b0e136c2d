package dto

import (
	"time"

	"anoa.com/folio/internal/entity"
	"github.com/google/uuid"
)

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Profiles  []string  `json:"profiles"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAccountResponse(a *entity.Account) *AccountResponse {
	usernames := make([]string, 0, len(a.Profiles))
	for _, p := range a.Profiles {
		usernames = append(usernames, p.Username)
	}
	return &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Profiles:  usernames,
		CreatedAt: a.CreatedAt,
	}
}
