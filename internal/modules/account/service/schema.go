package account

import (
	uniqueness "anoa.com/folio/internal/modules/uniqueness/service"
	"anoa.com/folio/internal/validation"
	validatorPkg "anoa.com/folio/pkg/validator"
)

const SchemaName = "account"

func Schema(guard uniqueness.UniquenessService) *validation.Schema {
	return &validation.Schema{
		Name: SchemaName,
		Fields: []validation.Field{
			{Name: "email", Lowercase: true, Rules: validatorPkg.EmailRules},
		},
		Verifiers: []validation.Verifier{
			validation.UniqueIfChanged("email", "This email is already registered", guard.IsEmailAvailable),
		},
	}
}
