package post

import (
	"context"
	"strings"

	"anoa.com/folio/internal/modules/resource/kind"
	resourceRepo "anoa.com/folio/internal/modules/resource/repository"
	"anoa.com/folio/internal/validation"
	"github.com/google/uuid"
)

const (
	SchemaName = "post"
	// OwnerField is carried in the current values of every post validation,
	// including creation, so verifiers know which profile the post belongs to.
	OwnerField = "profile_username"
)

var tagsShape = validation.MustShape(`{
	"type": "array",
	"maxItems": 20,
	"items": {"type": "string", "maxLength": 50}
}`)

func Schema(resources resourceRepo.ResourceRepository) *validation.Schema {
	return &validation.Schema{
		Name: SchemaName,
		Fields: []validation.Field{
			{Name: "title", Optional: true, Rules: "max=200"},
			{Name: "content", Optional: true, RichText: true, Rules: "max=20000"},
			{Name: "by", Optional: true, Rules: "max=100"},
			{Name: "published", Type: validation.Bool},
			{Name: "tags", Type: validation.JSON, Optional: true, Shape: tagsShape},
			{Name: "resource_kind", Optional: true, Rules: "max=30"},
			{Name: "resource_id", Optional: true, Rules: "uuid"},
		},
		Refinements: []validation.Refinement{
			{
				Path:    "resource_kind",
				Message: "Unknown resource type",
				Check: func(data validation.Data) bool {
					k := data.String("resource_kind")
					if k == nil {
						return true
					}
					_, ok := kind.Lookup(*k)
					return ok
				},
			},
			validation.BothOrNeither("resource_kind", "resource_id", "Choose both a resource type and a resource"),
		},
		Verifiers: []validation.Verifier{
			{
				Path:    "resource_id",
				Depends: []string{"resource_kind"},
				Message: "Resource not found",
				Check: func(ctx context.Context, data, current validation.Data) (bool, error) {
					return referencedResourceExists(ctx, resources, data, current)
				},
			},
		},
	}
}

func referencedResourceExists(ctx context.Context, resources resourceRepo.ResourceRepository, data, current validation.Data) (bool, error) {
	rawKind, rawID := data.String("resource_kind"), data.String("resource_id")
	if rawKind == nil || rawID == nil {
		return true, nil
	}

	d, ok := kind.Lookup(*rawKind)
	if !ok {
		return false, nil
	}
	id, err := uuid.Parse(*rawID)
	if err != nil {
		return false, nil
	}

	r, err := resources.FindByID(ctx, d, id)
	if err != nil {
		return false, err
	}
	return r != nil && r.ProfileUsername == current.Value(OwnerField), nil
}

// Tags decodes the validated tag list, trimming values and dropping empty
// and repeated entries while keeping the first position of each.
func Tags(data validation.Data) ([]string, error) {
	var raw []string
	if err := data.Decode("tags", &raw); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		tags = append(tags, v)
	}
	return tags, nil
}
