package validation

import (
	"context"
	"fmt"
	"net/url"

	"anoa.com/folio/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

// Mode selects which passes Validate runs.
type Mode int

const (
	// ModeClient runs the synchronous pass only. It never touches the store.
	ModeClient Mode = iota
	// ModeServer additionally runs store-backed verifiers. Only a successful
	// server-mode validation may be followed by a write.
	ModeServer
)

func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "client"
}

type options struct {
	current Data
}

type Option func(*options)

// WithCurrent passes the persisted values of the record being edited.
func WithCurrent(current Data) Option {
	return func(o *options) {
		o.current = current
	}
}

// Engine holds the registered schemas and the rule validator they share.
type Engine struct {
	validate *validator.Validate
	schemas  map[string]*Schema
}

func NewEngine(v *validator.Validate, schemas ...*Schema) *Engine {
	e := &Engine{
		validate: v,
		schemas:  make(map[string]*Schema, len(schemas)),
	}
	for _, s := range schemas {
		e.Register(s)
	}
	return e
}

func (e *Engine) Register(s *Schema) {
	e.schemas[s.Name] = s
}

func (e *Engine) Schema(name string) (*Schema, bool) {
	s, ok := e.schemas[name]
	return s, ok
}

// Validate coerces and checks raw against the named schema. On failure the
// error is an *apperror.ValidationError carrying every failing field; store
// errors raised by verifiers are returned as-is.
func (e *Engine) Validate(ctx context.Context, name string, raw url.Values, mode Mode, opts ...Option) (Data, error) {
	s, ok := e.schemas[name]
	if !ok {
		return nil, fmt.Errorf("validation: unknown schema %q", name)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	data, errs := s.Check(e.validate, raw)

	if mode == ModeServer {
		if err := s.Verify(ctx, data, o.current, errs); err != nil {
			return nil, fmt.Errorf("validate %s: %w", name, err)
		}
	}

	if err := apperror.NewValidationError(errs); err != nil {
		return nil, err
	}
	return data, nil
}
