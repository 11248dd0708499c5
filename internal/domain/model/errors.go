package model

import (
	"errors"
	"strings"
)

var (
	errNilScorer = errors.New("bundle: scorer is required")
	errNoSource  = errors.New("bundle: source is required")
)

// FieldError describes one offending field of a request payload.
// Loc is the path to the field, e.g. ["body", "V3"].
type FieldError struct {
	Loc     []string `json:"loc"`
	Message string   `json:"msg"`
	Type    string   `json:"type"`
}

// Field-error types.
const (
	FieldErrorMissing     = "missing"
	FieldErrorNotNumber   = "float_parsing"
	FieldErrorInvalidJSON = "json_invalid"
	FieldErrorNotObject   = "model_attributes_type"
)

// Field-error messages.
const (
	MissingFieldMessage = "Field required"
	NotNumberMessage    = "Input should be a valid number"
	InvalidJSONMessage  = "JSON decode error"
	NotObjectMessage    = "Input should be a valid dictionary or object to extract fields from"
)

// ValidationError is returned when a caller payload is malformed. It is a client
// error and never a server fault.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, strings.Join(f.Loc, " -> ")+": "+f.Message+" (type: "+f.Type+")")
	}
	return strings.Join(parts, "; ")
}
