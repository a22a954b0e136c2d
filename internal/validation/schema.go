package validation

import (
	"context"
	"net/url"
	"slices"

	validatorPkg "anoa.com/folio/pkg/validator"
	"github.com/go-playground/validator/v10"
)

// Refinement is a synchronous rule over the whole candidate. When Check fails,
// Message is reported on Path.
type Refinement struct {
	Path    string
	Depends []string
	Message string
	Check   func(data Data) bool
}

// Verifier is a store-backed rule. It only runs in server mode. current holds
// the persisted values of the record being edited and is nil on create.
type Verifier struct {
	Path    string
	Depends []string
	Message string
	Check   func(ctx context.Context, data, current Data) (bool, error)
}

// Schema describes one form.
type Schema struct {
	Name        string
	Fields      []Field
	Refinements []Refinement
	Verifiers   []Verifier
}

// Field returns the declared field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Check runs the synchronous pass and returns the candidate with every field
// error found. The returned map is empty when the input is acceptable.
func (s *Schema) Check(v *validator.Validate, raw url.Values) (Data, map[string]string) {
	data, errs := Coerce(s.Fields, raw)

	for _, f := range s.Fields {
		if _, failed := errs[f.Name]; failed {
			continue
		}
		switch f.Type {
		case JSON:
			if !f.Optional && len(data.JSON(f.Name)) == 0 {
				errs[f.Name] = "Required"
			}
		case String:
			value := data.String(f.Name)
			if value == nil {
				if !f.Optional {
					errs[f.Name] = "Required"
				}
				continue
			}
			if f.Rules == "" {
				continue
			}
			if err := v.Var(*value, f.Rules); err != nil {
				errs[f.Name] = validatorPkg.FirstMessage(err)
			}
		}
	}

	for _, r := range s.Refinements {
		if blocked(errs, r.Path, r.Depends) {
			continue
		}
		if !r.Check(data) {
			errs[r.Path] = r.Message
		}
	}

	return data, errs
}

// Verify runs the asynchronous pass, adding failures to errs. Errors returned
// by a verifier are store failures and abort verification.
func (s *Schema) Verify(ctx context.Context, data, current Data, errs map[string]string) error {
	for _, vr := range s.Verifiers {
		if blocked(errs, vr.Path, vr.Depends) {
			continue
		}
		ok, err := vr.Check(ctx, data, current)
		if err != nil {
			return err
		}
		if !ok {
			errs[vr.Path] = vr.Message
		}
	}
	return nil
}

func blocked(errs map[string]string, path string, depends []string) bool {
	if _, failed := errs[path]; failed {
		return true
	}
	return slices.ContainsFunc(depends, func(d string) bool {
		_, failed := errs[d]
		return failed
	})
}
