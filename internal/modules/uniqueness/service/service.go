// Package uniqueness answers whether a username or email address is still
// free. The answer is a hint: the unique indexes on profiles.username and
// accounts.email stay authoritative, and a lost race surfaces as a conflict
// when the write happens.
package uniqueness

import (
	"context"
	"strings"

	accountRepo "anoa.com/folio/internal/modules/account/repository"
	profileRepo "anoa.com/folio/internal/modules/profile/repository"
)

type UniquenessService interface {
	IsUsernameAvailable(ctx context.Context, candidate string) (bool, error)
	IsEmailAvailable(ctx context.Context, candidate string) (bool, error)
}

type uniquenessService struct {
	profiles profileRepo.ProfileRepository
	accounts accountRepo.AccountRepository
}

func NewUniquenessService(profiles profileRepo.ProfileRepository, accounts accountRepo.AccountRepository) UniquenessService {
	return &uniquenessService{profiles: profiles, accounts: accounts}
}

func (s *uniquenessService) IsUsernameAvailable(ctx context.Context, candidate string) (bool, error) {
	taken, err := s.profiles.ExistsUsername(ctx, strings.TrimSpace(candidate))
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *uniquenessService) IsEmailAvailable(ctx context.Context, candidate string) (bool, error) {
	taken, err := s.accounts.ExistsEmail(ctx, strings.ToLower(strings.TrimSpace(candidate)))
	if err != nil {
		return false, err
	}
	return !taken, nil
}
