package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/infrastructure/schema"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidator_AcceptsCompletePayload(t *testing.T) {
	assert.NoError(t, newValidator(t).Validate(testutil.SamplePayload()))
}

func TestValidator_IgnoresExtraFields(t *testing.T) {
	p := testutil.SamplePayload()
	p.Set("Class", 0.0)
	p.Set("note", "hello")
	assert.NoError(t, newValidator(t).Validate(p))
}

func TestValidator_IntegralNumbersAreNumbers(t *testing.T) {
	p := testutil.SamplePayload()
	p.Set("Time", 0.0)
	p.Set("Amount", 100.0)
	assert.NoError(t, newValidator(t).Validate(p))
}

func TestValidator_ReportsEveryOffendingField(t *testing.T) {
	p := model.NewPayload()
	for i, name := range model.FeatureNames {
		if name == "V3" || name == "V17" {
			continue
		}
		p.Set(name, testutil.SampleTransactionValues[i])
	}
	p.Set("Amount", "149.62")
	p.Set("V1", nil)
	p.Set("V2", true)

	err := newValidator(t).Validate(p)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	type entry struct{ field, typ, msg string }
	var got []entry
	for _, f := range verr.Fields {
		require.Len(t, f.Loc, 2)
		assert.Equal(t, "body", f.Loc[0])
		got = append(got, entry{f.Loc[1], f.Type, f.Message})
	}
	assert.Equal(t, []entry{
		{"V1", model.FieldErrorNotNumber, model.NotNumberMessage},
		{"V2", model.FieldErrorNotNumber, model.NotNumberMessage},
		{"V3", model.FieldErrorMissing, model.MissingFieldMessage},
		{"V17", model.FieldErrorMissing, model.MissingFieldMessage},
		{"Amount", model.FieldErrorNotNumber, model.NotNumberMessage},
	}, got)
}

func TestValidator_EmptyPayload(t *testing.T) {
	err := newValidator(t).Validate(model.NewPayload())
	assert.Len(t, testutil.RequireFieldErrors(t, err), model.NumFeatures)
	testutil.AssertFieldError(t, err, "Time", model.FieldErrorMissing)
}

func TestTransaction_SchemaDocument(t *testing.T) {
	data, err := json.Marshal(schema.Transaction())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Len(t, doc["required"], model.NumFeatures)

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	amount, ok := props["Amount"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", amount["type"])
}
