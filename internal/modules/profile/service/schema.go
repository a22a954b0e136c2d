package profile

import (
	uniqueness "anoa.com/folio/internal/modules/uniqueness/service"
	"anoa.com/folio/internal/validation"
	validatorPkg "anoa.com/folio/pkg/validator"
)

const SchemaName = "profile"

var avatarShape = validation.MustShape(`{
	"type": "object",
	"required": ["url", "key"],
	"properties": {
		"url": {"type": "string", "minLength": 1},
		"key": {"type": "string", "minLength": 1}
	},
	"additionalProperties": false
}`)

func Schema(guard uniqueness.UniquenessService) *validation.Schema {
	return &validation.Schema{
		Name: SchemaName,
		Fields: []validation.Field{
			{Name: "username", Rules: validatorPkg.UsernameRules},
			{Name: "display_name", Rules: "max=50"},
			{Name: "job_title", Optional: true, Rules: "max=100"},
			{Name: "location", Optional: true, Rules: "max=100"},
			{Name: "pronouns", Optional: true, Rules: "max=30"},
			{Name: "website", Optional: true, Rules: validatorPkg.LinkRules},
			{Name: "bio", Optional: true, RichText: true, Rules: "max=1000"},
			{Name: "avatar", Type: validation.JSON, Optional: true, Shape: avatarShape},
		},
		Verifiers: []validation.Verifier{
			validation.UniqueIfChanged("username", "This username is already taken", guard.IsUsernameAvailable),
		},
	}
}
