package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// sampleSize is how many received fields are echoed back in a report.
const sampleSize = 5

// Diagnose compares a raw payload against the expected feature set without
// predicting. It reports missing and extra fields and non-numeric values.
func Diagnose(payload *model.Payload) model.ValidationReport {
	report := model.ValidationReport{
		ReceivedFields: payload.Keys(),
		FieldCount:     payload.Len(),
		MissingFields:  []string{},
		ExtraFields:    []string{},
		TypeIssues:     map[string]string{},
		SampleValues:   payload.Head(sampleSize),
	}

	for _, name := range model.FeatureNames {
		if _, ok := payload.Get(name); !ok {
			report.MissingFields = append(report.MissingFields, name)
		}
	}

	for _, key := range payload.Keys() {
		if !model.IsFeature(key) {
			report.ExtraFields = append(report.ExtraFields, key)
			continue
		}
		v, _ := payload.Get(key)
		if !IsNumber(v) {
			kind, shown := describeValue(v)
			report.TypeIssues[key] = fmt.Sprintf("Expected number, got %s: %s", kind, shown)
		}
	}

	report.IsValid = len(report.MissingFields) == 0 && len(report.TypeIssues) == 0
	return report
}

// IsNumber reports whether a decoded JSON value is a number.
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, json.Number:
		return true
	default:
		return false
	}
}

func describeValue(v any) (kind, shown string) {
	switch val := v.(type) {
	case nil:
		return "null", "null"
	case string:
		return "string", val
	case bool:
		return "boolean", strconv.FormatBool(val)
	case []any:
		data, _ := json.Marshal(val)
		return "array", string(data)
	case map[string]any, *model.Payload:
		data, _ := json.Marshal(val)
		return "object", string(data)
	default:
		return fmt.Sprintf("%T", val), fmt.Sprint(val)
	}
}
