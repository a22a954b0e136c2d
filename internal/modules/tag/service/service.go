package tag

import (
	"context"
	"log"
	"net/url"

	tagRepo "anoa.com/folio/internal/modules/tag/repository"
	"anoa.com/folio/internal/ordering"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/cache"
)

type TagService interface {
	List(ctx context.Context, username string, owner bool) ([]*tagRepo.TagUsage, error)
	Reorder(ctx context.Context, username string, form url.Values) error
}

type tagService struct {
	repo     tagRepo.TagRepository
	engine   *validation.Engine
	ordering ordering.Service
	cache    *cache.Cache
}

func NewTagService(repo tagRepo.TagRepository, engine *validation.Engine, orderingSvc ordering.Service, c *cache.Cache) TagService {
	return &tagService{repo: repo, engine: engine, ordering: orderingSvc, cache: c}
}

// List returns the profile's tags by usage. Visitors only see tags of
// published posts.
func (s *tagService) List(ctx context.Context, username string, owner bool) ([]*tagRepo.TagUsage, error) {
	return s.repo.ListByProfile(ctx, username, !owner)
}

// Reorder replaces the positions of the given tag assignments. Every id must
// be an assignment on a post of the profile.
func (s *tagService) Reorder(ctx context.Context, username string, form url.Values) error {
	data, err := s.engine.Validate(ctx, ordering.SchemaName, form, validation.ModeServer)
	if err != nil {
		return err
	}
	items, err := ordering.Decode(data)
	if err != nil {
		return err
	}
	if err := s.ordering.Apply(ctx, ordering.TagAssignments(username), items); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, cache.Key(username)); err != nil {
		log.Printf("[tag] cache invalidation for %s failed: %v", username, err)
	}
	return nil
}
