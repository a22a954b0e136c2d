package profile

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"anoa.com/folio/internal/entity"
	profileDto "anoa.com/folio/internal/modules/profile/dto"
	profileRepo "anoa.com/folio/internal/modules/profile/repository"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/cache"
	"github.com/google/uuid"
)

type ProfileService interface {
	Create(ctx context.Context, accountID uuid.UUID, form url.Values) (*profileDto.ProfileResponse, error)
	GetByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*profileDto.ProfileResponse, error)
	Update(ctx context.Context, username string, form url.Values) (*profileDto.ProfileResponse, error)
	Delete(ctx context.Context, username string) error
}

type profileService struct {
	repo   profileRepo.ProfileRepository
	engine *validation.Engine
	cache  *cache.Cache
}

func NewProfileService(repo profileRepo.ProfileRepository, engine *validation.Engine, c *cache.Cache) ProfileService {
	return &profileService{repo: repo, engine: engine, cache: c}
}

func currentValues(p *entity.Profile) validation.Data {
	username := p.Username
	return validation.FromStrings(map[string]*string{"username": &username})
}

// apply copies validated form data onto p.
func apply(p *entity.Profile, data validation.Data) {
	p.Username = data.Value("username")
	p.DisplayName = data.Value("display_name")
	p.JobTitle = data.String("job_title")
	p.Location = data.String("location")
	p.Pronouns = data.String("pronouns")
	p.Website = data.String("website")
	p.Bio = data.String("bio")
	p.Avatar = nil
	if raw := data.JSON("avatar"); len(raw) > 0 {
		avatar := string(raw)
		p.Avatar = &avatar
	}
}

// Create adds a profile to the account. The account must already be
// registered.
func (s *profileService) Create(ctx context.Context, accountID uuid.UUID, form url.Values) (*profileDto.ProfileResponse, error) {
	data, err := s.engine.Validate(ctx, SchemaName, form, validation.ModeServer)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{AccountID: accountID}
	apply(profile, data)

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profileDto.NewProfileResponse(profile), nil
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error) {
	var resp *profileDto.ProfileResponse
	err := s.cache.Aside(ctx, cache.Key(username, "profile"), &resp, func() error {
		profile, err := s.repo.MustFindByUsername(ctx, username)
		if err != nil {
			return err
		}
		resp = profileDto.NewProfileResponse(profile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *profileService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*profileDto.ProfileResponse, error) {
	profiles, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]*profileDto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileDto.NewProfileResponse(p))
	}
	return out, nil
}

// Update replaces every editable field. Renaming keeps all resources, posts
// and tags attached to the profile.
func (s *profileService) Update(ctx context.Context, username string, form url.Values) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.MustFindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Validate(ctx, SchemaName, form, validation.ModeServer, validation.WithCurrent(currentValues(profile)))
	if err != nil {
		return nil, err
	}

	apply(profile, data)
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.invalidate(ctx, username)
	if profile.Username != username {
		s.invalidate(ctx, profile.Username)
	}
	return profileDto.NewProfileResponse(profile), nil
}

func (s *profileService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	s.invalidate(ctx, username)
	return nil
}

func (s *profileService) invalidate(ctx context.Context, username string) {
	if err := s.cache.Invalidate(ctx, cache.Key(username)); err != nil {
		log.Printf("[profile] cache invalidation for %s failed: %v", username, err)
	}
}
