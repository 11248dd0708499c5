// Package schema validates transaction payloads against a JSON Schema built
// from the feature list.
package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// Transaction returns the JSON Schema of a transaction payload: an object with
// every feature required and numeric. Extra properties are allowed.
func Transaction() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, model.NumFeatures)
	required := make([]string, 0, model.NumFeatures)
	for _, name := range model.FeatureNames {
		props[name] = feature(name)
		required = append(required, name)
	}
	return &jsonschema.Schema{
		Title:      "TransactionInput",
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func feature(name string) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "number", Title: name}
	switch name {
	case "Time":
		s.Description = "Seconds elapsed since the first transaction in the dataset"
	case "Amount":
		s.Description = "Transaction amount"
	default:
		s.Description = "PCA component " + name[1:]
	}
	return s
}

// Validator implements usecase.PayloadValidator.
type Validator struct {
	object   *jsonschema.Resolved
	features map[string]*jsonschema.Resolved
}

// NewValidator resolves the transaction schema.
func NewValidator() (*Validator, error) {
	root := Transaction()
	object, err := root.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("schema: resolve transaction schema: %w", err)
	}

	features := make(map[string]*jsonschema.Resolved, len(root.Properties))
	for name, prop := range root.Properties {
		r, err := prop.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("schema: resolve %s: %w", name, err)
		}
		features[name] = r
	}
	return &Validator{object: object, features: features}, nil
}

// Validate checks payload against the schema. On failure it returns a
// *model.ValidationError with one entry per offending feature, in feature order.
func (v *Validator) Validate(payload *model.Payload) error {
	instance := make(map[string]any, payload.Len())
	for _, k := range payload.Keys() {
		instance[k], _ = payload.Get(k)
	}
	if err := v.object.Validate(instance); err == nil {
		return nil
	}

	var fields []model.FieldError
	for _, name := range model.FeatureNames {
		raw, ok := instance[name]
		if !ok {
			fields = append(fields, model.FieldError{
				Loc:     []string{"body", name},
				Message: model.MissingFieldMessage,
				Type:    model.FieldErrorMissing,
			})
			continue
		}
		if err := v.features[name].Validate(raw); err != nil {
			fields = append(fields, model.FieldError{
				Loc:     []string{"body", name},
				Message: model.NotNumberMessage,
				Type:    model.FieldErrorNotNumber,
			})
		}
	}
	if len(fields) == 0 {
		return &model.ValidationError{Fields: []model.FieldError{{
			Loc:     []string{"body"},
			Message: model.NotObjectMessage,
			Type:    model.FieldErrorNotObject,
		}}}
	}
	return &model.ValidationError{Fields: fields}
}
