// Package validation turns raw form input into typed, checked candidate values.
//
// A Schema lists the fields of one form together with its cross-field
// refinements and its store-backed verifiers. Checking runs in two passes: the
// synchronous pass (coercion, field rules, refinements) is shared by client and
// server mode, the asynchronous pass (verifiers) only runs in server mode.
package validation

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"
)

type FieldType int

const (
	String FieldType = iota
	Bool
	JSON
)

// Field declares how one form key is coerced and which rules apply to it.
type Field struct {
	Name     string
	Type     FieldType
	Optional bool
	// Rules is a go-playground/validator tag chain applied to non-null string values.
	Rules string
	// RichText fields are sanitised with a UGC HTML policy after trimming.
	RichText bool
	// Lowercase folds the value before rules run.
	Lowercase bool
	// Shape, when set, is the JSON schema a JSON field must satisfy.
	Shape *gojsonschema.Schema
}

// Data is the coerced candidate produced from a form. String fields hold a
// *string (nil means not provided), Bool fields a bool and JSON fields a
// json.RawMessage.
type Data map[string]any

func (d Data) String(name string) *string {
	v, _ := d[name].(*string)
	return v
}

func (d Data) Value(name string) string {
	if v := d.String(name); v != nil {
		return *v
	}
	return ""
}

func (d Data) Bool(name string) bool {
	v, _ := d[name].(bool)
	return v
}

func (d Data) JSON(name string) json.RawMessage {
	v, _ := d[name].(json.RawMessage)
	return v
}

// Decode unmarshals a JSON field into dst. It is a no-op for absent fields.
func (d Data) Decode(name string, dst any) error {
	raw := d.JSON(name)
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Strings returns the string-typed fields of d keyed by field name.
func (d Data) Strings() map[string]*string {
	out := make(map[string]*string, len(d))
	for k, v := range d {
		if s, ok := v.(*string); ok {
			out[k] = s
		}
	}
	return out
}

// FromStrings builds Data from stored values, e.g. to pass a record's current
// state to WithCurrent.
func FromStrings(values map[string]*string) Data {
	d := make(Data, len(values))
	for k, v := range values {
		d[k] = v
	}
	return d
}

var richText = bluemonday.UGCPolicy()

// MustShape compiles a JSON schema document and panics when it is invalid.
func MustShape(doc string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic("validation: invalid JSON schema: " + err.Error())
	}
	return s
}

// Coerce normalises raw form values. It has no side effects. The returned map
// holds errors for JSON fields that could not be parsed or do not match their
// shape.
func Coerce(fields []Field, raw url.Values) (Data, map[string]string) {
	data := make(Data, len(fields))
	errs := make(map[string]string)

	for _, f := range fields {
		value := strings.TrimSpace(raw.Get(f.Name))

		switch f.Type {
		case Bool:
			data[f.Name] = value == "true"

		case JSON:
			if value == "" {
				data[f.Name] = json.RawMessage(nil)
				continue
			}
			msg, ok := coerceJSON(f, value)
			if !ok {
				errs[f.Name] = msg
				continue
			}
			data[f.Name] = json.RawMessage(value)

		default:
			if f.RichText {
				value = strings.TrimSpace(richText.Sanitize(value))
			}
			if f.Lowercase {
				value = strings.ToLower(value)
			}
			if value == "" {
				data[f.Name] = (*string)(nil)
				continue
			}
			v := value
			data[f.Name] = &v
		}
	}

	return data, errs
}

func coerceJSON(f Field, value string) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(value)))
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return "Malformed JSON", false
	}
	if f.Shape == nil {
		return "", true
	}
	res, err := f.Shape.Validate(gojsonschema.NewStringLoader(value))
	if err != nil || !res.Valid() {
		return "Unexpected JSON structure", false
	}
	return "", true
}
