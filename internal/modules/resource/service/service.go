package resource

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/modules/resource/dto"
	"anoa.com/folio/internal/modules/resource/kind"
	"anoa.com/folio/internal/modules/resource/repository"
	"anoa.com/folio/internal/ordering"
	"anoa.com/folio/internal/publication"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/cache"
	"github.com/google/uuid"
)

type ResourceService interface {
	Kinds() []dto.KindResponse
	List(ctx context.Context, kindName, username string, owner bool) ([]*dto.ResourceResponse, error)
	Get(ctx context.Context, kindName, username string, id uuid.UUID, owner bool) (*dto.ResourceResponse, error)
	Create(ctx context.Context, kindName, username string, form url.Values) (*dto.ResourceResponse, error)
	Update(ctx context.Context, kindName, username string, id uuid.UUID, form url.Values) (*dto.ResourceResponse, error)
	Delete(ctx context.Context, kindName, username string, id uuid.UUID) error
	Transition(ctx context.Context, kindName, username string, id uuid.UUID, event publication.Event) (*dto.ResourceResponse, error)
	ReorderPosts(ctx context.Context, kindName, username string, id uuid.UUID, form url.Values) error
}

type resourceService struct {
	repo     repository.ResourceRepository
	engine   *validation.Engine
	ordering ordering.Service
	cache    *cache.Cache
}

func NewResourceService(repo repository.ResourceRepository, engine *validation.Engine, orderingSvc ordering.Service, c *cache.Cache) ResourceService {
	return &resourceService{
		repo:     repo,
		engine:   engine,
		ordering: orderingSvc,
		cache:    c,
	}
}

func lookup(name string) (*kind.Descriptor, error) {
	d, ok := kind.Lookup(name)
	if !ok {
		return nil, apperror.NotFound("resource kind", name)
	}
	return d, nil
}

func (s *resourceService) Kinds() []dto.KindResponse {
	all := kind.All()
	out := make([]dto.KindResponse, 0, len(all))
	for _, d := range all {
		fields := make([]string, 0, len(d.Fields))
		for _, f := range d.Fields {
			fields = append(fields, f.Name)
		}
		out = append(out, dto.KindResponse{Name: d.Name, Label: d.Label, Fields: fields})
	}
	return out
}

func (s *resourceService) List(ctx context.Context, kindName, username string, owner bool) ([]*dto.ResourceResponse, error) {
	d, err := lookup(kindName)
	if err != nil {
		return nil, err
	}

	load := func() ([]*dto.ResourceResponse, error) {
		resources, err := s.repo.ListByProfile(ctx, d, username, repository.ListOptions{OnlyPublished: !owner})
		if err != nil {
			return nil, err
		}
		out := make([]*dto.ResourceResponse, 0, len(resources))
		for _, r := range resources {
			out = append(out, dto.NewResourceResponse(d, r))
		}
		return out, nil
	}

	if owner {
		return load()
	}

	var out []*dto.ResourceResponse
	err = s.cache.Aside(ctx, cache.Key(username, "resources", d.Name), &out, func() error {
		var err error
		out, err = load()
		return err
	})
	return out, err
}

// find loads a resource of the kind and hides resources of other profiles.
func (s *resourceService) find(ctx context.Context, d *kind.Descriptor, username string, id uuid.UUID) (*entity.Resource, error) {
	r, err := s.repo.MustFindByID(ctx, d, id)
	if err != nil {
		return nil, err
	}
	if r.ProfileUsername != username {
		return nil, apperror.NotFound(d.Name, id.String())
	}
	return r, nil
}

func (s *resourceService) Get(ctx context.Context, kindName, username string, id uuid.UUID, owner bool) (*dto.ResourceResponse, error) {
	d, err := lookup(kindName)
	if err != nil {
		return nil, err
	}
	r, err := s.find(ctx, d, username, id)
	if err != nil {
		return nil, err
	}
	if !owner && !r.Published {
		return nil, apperror.NotFound(d.Name, id.String())
	}
	return dto.NewResourceResponse(d, r), nil
}

func (s *resourceService) Create(ctx context.Context, kindName, username string, form url.Values) (*dto.ResourceResponse, error) {
	d, err := lookup(kindName)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Validate(ctx, d.Name, form, validation.ModeServer)
	if err != nil {
		return nil, err
	}

	state := publication.Initial(data.Bool(kind.PublishedField))
	r, err := s.repo.Create(ctx, d, username, data.Strings(), state.Flag())
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", d.Name, err)
	}

	s.invalidate(ctx, username)
	return dto.NewResourceResponse(d, r), nil
}

func (s *resourceService) Update(ctx context.Context, kindName, username string, id uuid.UUID, form url.Values) (*dto.ResourceResponse, error) {
	d, err := lookup(kindName)
	if err != nil {
		return nil, err
	}
	current, err := s.find(ctx, d, username, id)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Validate(ctx, d.Name, form, validation.ModeServer,
		validation.WithCurrent(validation.FromStrings(d.Values(current))))
	if err != nil {
		return nil, err
	}

	r, err := s.repo.Update(ctx, d, id, data.Strings())
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", d.Name, err)
	}

	s.invalidate(ctx, username)
	return dto.NewResourceResponse(d, r), nil
}

func (s *resourceService) Delete(ctx context.Context, kindName, username string, id uuid.UUID) error {
	d, err := lookup(kindName)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, d, username, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, d, id); err != nil {
		return err
	}

	s.invalidate(ctx, username)
	return nil
}

func (s *resourceService) Transition(ctx context.Context, kindName, username string, id uuid.UUID, event publication.Event) (*dto.ResourceResponse, error) {
	d, err := lookup(kindName)
	if err != nil {
		return nil, err
	}
	r, err := s.find(ctx, d, username, id)
	if err != nil {
		return nil, err
	}

	next, changed, err := publication.Apply(ctx, publication.FromFlag(r.Published), event, func(ctx context.Context, published bool) error {
		return s.repo.SetPublished(ctx, d, id, published)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.invalidate(ctx, username)
	}

	r.Published = next.Flag()
	return dto.NewResourceResponse(d, r), nil
}

func (s *resourceService) ReorderPosts(ctx context.Context, kindName, username string, id uuid.UUID, form url.Values) error {
	d, err := lookup(kindName)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, d, username, id); err != nil {
		return err
	}

	data, err := s.engine.Validate(ctx, ordering.SchemaName, form, validation.ModeServer)
	if err != nil {
		return err
	}
	items, err := ordering.Decode(data)
	if err != nil {
		return err
	}
	if err := s.ordering.Apply(ctx, ordering.ResourcePosts(id), items); err != nil {
		return err
	}

	s.invalidate(ctx, username)
	return nil
}

func (s *resourceService) invalidate(ctx context.Context, username string) {
	if err := s.cache.Invalidate(ctx, cache.Key(username)); err != nil {
		log.Printf("[resource] cache invalidation for %s failed: %v", username, err)
	}
}
