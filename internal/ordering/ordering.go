// Package ordering replaces the explicit positions of a known set of rows in
// one transaction. A payload must list every row of the set. Positions are
// caller assigned: duplicates and gaps are kept as given and simply produce
// the corresponding sort order.
package ordering

import (
	"context"
	"fmt"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// FieldName is the form key carrying the JSON ordering payload.
	FieldName = "order"
	// SchemaName is the name the reorder form is registered under.
	SchemaName = "reorder"
)

// Item assigns Order to the row identified by ID.
type Item struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// PayloadShape is the JSON schema of an ordering payload: [{"id": "...", "order": 1}, ...].
var PayloadShape = validation.MustShape(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "order"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"order": {"type": "integer"}
		}
	}
}`)

// Schema is the validation schema of the reorder form.
func Schema(name string) *validation.Schema {
	return &validation.Schema{
		Name: name,
		Fields: []validation.Field{
			{Name: FieldName, Type: validation.JSON, Shape: PayloadShape},
		},
	}
}

// Decode extracts the items of a validated reorder form.
func Decode(data validation.Data) ([]Item, error) {
	var items []Item
	if err := data.Decode(FieldName, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedPayload, err)
	}
	return items, nil
}

// Set is a group of rows whose positions are replaced together.
type Set struct {
	Name   string
	Model  any
	Column string
	Scope  func(tx *gorm.DB) *gorm.DB
}

// TagAssignments is every tag assignment on posts of the given profile.
func TagAssignments(username string) Set {
	return Set{
		Name:   "tag assignment",
		Model:  &entity.PostTag{},
		Column: "position",
		Scope: func(tx *gorm.DB) *gorm.DB {
			tags := tx.Session(&gorm.Session{NewDB: true}).
				Model(&entity.Tag{}).
				Select("id").
				Where("profile_username = ?", username)
			return tx.Where("tag_id IN (?)", tags)
		},
	}
}

// ResourcePosts is every post referencing the given resource.
func ResourcePosts(resourceID uuid.UUID) Set {
	return Set{
		Name:   "post",
		Model:  &entity.Post{},
		Column: "position",
		Scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("resource_id = ?", resourceID)
		},
	}
}

type Service interface {
	Apply(ctx context.Context, set Set, items []Item) error
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

// IncompleteMessage is reported on the order field when a payload leaves out
// rows of the set.
const IncompleteMessage = "Order must include every item"

// Apply writes every position or none. An id outside the set aborts the whole
// batch with a not-found error; a payload that does not cover the whole set
// aborts it with a validation error on the order field.
func (s *service) Apply(ctx context.Context, set Set, items []Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[uuid.UUID]struct{}, len(items))
		for _, item := range items {
			id, err := uuid.Parse(item.ID)
			if err != nil {
				return apperror.NotFound(set.Name, item.ID)
			}

			res := set.Scope(tx.Model(set.Model)).
				Where("id = ?", id).
				UpdateColumn(set.Column, item.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperror.NotFound(set.Name, item.ID)
			}
			seen[id] = struct{}{}
		}

		var total int64
		if err := set.Scope(tx.Model(set.Model)).Count(&total).Error; err != nil {
			return err
		}
		if int64(len(seen)) != total {
			return apperror.NewValidationError(map[string]string{FieldName: IncompleteMessage})
		}
		return nil
	})
}
