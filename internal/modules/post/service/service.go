package post

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"anoa.com/folio/internal/entity"
	postDto "anoa.com/folio/internal/modules/post/dto"
	postRepo "anoa.com/folio/internal/modules/post/repository"
	"anoa.com/folio/internal/publication"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/cache"
	"github.com/google/uuid"
)

type PostService interface {
	List(ctx context.Context, username string, owner bool, filter postDto.PostFilter) ([]*postDto.PostResponse, error)
	Get(ctx context.Context, username string, id uuid.UUID, owner bool) (*postDto.PostResponse, error)
	Create(ctx context.Context, username string, form url.Values) (*postDto.PostResponse, error)
	Update(ctx context.Context, username string, id uuid.UUID, form url.Values) (*postDto.PostResponse, error)
	Delete(ctx context.Context, username string, id uuid.UUID) error
	Transition(ctx context.Context, username string, id uuid.UUID, event publication.Event) (*postDto.PostResponse, error)
}

type postService struct {
	repo   postRepo.PostRepository
	engine *validation.Engine
	cache  *cache.Cache
}

func NewPostService(repo postRepo.PostRepository, engine *validation.Engine, c *cache.Cache) PostService {
	return &postService{repo: repo, engine: engine, cache: c}
}

func (s *postService) List(ctx context.Context, username string, owner bool, filter postDto.PostFilter) ([]*postDto.PostResponse, error) {
	opts := postRepo.ListOptions{OnlyPublished: !owner, Tag: filter.Tag}
	if filter.ResourceID != "" {
		id, err := uuid.Parse(filter.ResourceID)
		if err != nil {
			return nil, apperror.NotFound("resource", filter.ResourceID)
		}
		opts.ResourceID = &id
	}

	load := func() ([]*postDto.PostResponse, error) {
		posts, err := s.repo.ListByProfile(ctx, username, opts)
		if err != nil {
			return nil, err
		}
		out := make([]*postDto.PostResponse, 0, len(posts))
		for _, p := range posts {
			out = append(out, postDto.NewPostResponse(p))
		}
		return out, nil
	}

	if owner {
		return load()
	}

	var out []*postDto.PostResponse
	err := s.cache.Aside(ctx, cache.Key(username, "posts", filter.ResourceID, filter.Tag), &out, func() error {
		var err error
		out, err = load()
		return err
	})
	return out, err
}

func (s *postService) find(ctx context.Context, username string, id uuid.UUID) (*entity.Post, error) {
	post, err := s.repo.MustFindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.ProfileUsername != username {
		return nil, apperror.NotFound("post", id.String())
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, username string, id uuid.UUID, owner bool) (*postDto.PostResponse, error) {
	post, err := s.find(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if !owner && !post.Published {
		return nil, apperror.NotFound("post", id.String())
	}
	return postDto.NewPostResponse(post), nil
}

// validate runs the post form in server mode. current is the stored post on
// update and nil on create.
func (s *postService) validate(ctx context.Context, username string, form url.Values, current *entity.Post) (validation.Data, []string, error) {
	values := map[string]*string{OwnerField: &username}
	if current != nil {
		values["title"] = current.Title
		values["content"] = current.Content
		values["by"] = current.By
	}

	data, err := s.engine.Validate(ctx, SchemaName, form, validation.ModeServer, validation.WithCurrent(validation.FromStrings(values)))
	if err != nil {
		return nil, nil, err
	}
	tags, err := Tags(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tags: %v", apperror.ErrMalformedPayload, err)
	}
	return data, tags, nil
}

func reference(data validation.Data) *entity.ResourceRef {
	k, id := data.String("resource_kind"), data.String("resource_id")
	if k == nil || id == nil {
		return nil
	}
	return &entity.ResourceRef{Kind: *k, ID: uuid.MustParse(*id)}
}

func (s *postService) Create(ctx context.Context, username string, form url.Values) (*postDto.PostResponse, error) {
	data, tags, err := s.validate(ctx, username, form, nil)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		ProfileUsername: username,
		Title:           data.String("title"),
		Content:         data.String("content"),
		By:              data.String("by"),
		Published:       publication.Initial(data.Bool("published")).Flag(),
	}
	post.SetReference(reference(data))

	if err := s.repo.Create(ctx, post, tags); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidate(ctx, username)
	return postDto.NewPostResponse(post), nil
}

// Update replaces content, reference and tags. Publication state and
// position are left alone.
func (s *postService) Update(ctx context.Context, username string, id uuid.UUID, form url.Values) (*postDto.PostResponse, error) {
	post, err := s.find(ctx, username, id)
	if err != nil {
		return nil, err
	}

	data, tags, err := s.validate(ctx, username, form, post)
	if err != nil {
		return nil, err
	}

	post.Title = data.String("title")
	post.Content = data.String("content")
	post.By = data.String("by")
	post.SetReference(reference(data))

	if err := s.repo.Update(ctx, post, tags); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.invalidate(ctx, username)
	return postDto.NewPostResponse(post), nil
}

func (s *postService) Delete(ctx context.Context, username string, id uuid.UUID) error {
	if _, err := s.find(ctx, username, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, username)
	return nil
}

func (s *postService) Transition(ctx context.Context, username string, id uuid.UUID, event publication.Event) (*postDto.PostResponse, error) {
	post, err := s.find(ctx, username, id)
	if err != nil {
		return nil, err
	}

	next, changed, err := publication.Apply(ctx, publication.FromFlag(post.Published), event, func(ctx context.Context, published bool) error {
		return s.repo.SetPublished(ctx, id, published)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.invalidate(ctx, username)
	}

	post.Published = next.Flag()
	return postDto.NewPostResponse(post), nil
}

func (s *postService) invalidate(ctx context.Context, username string) {
	if err := s.cache.Invalidate(ctx, cache.Key(username)); err != nil {
		log.Printf("[post] cache invalidation for %s failed: %v", username, err)
	}
}
