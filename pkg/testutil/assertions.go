package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// RequireFieldErrors fails the test immediately unless err is a
// *model.ValidationError, and returns its field errors.
func RequireFieldErrors(t *testing.T, err error) []model.FieldError {
	t.Helper()
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

// AssertFieldError checks that err reports field under the request body with
// the given error type.
func AssertFieldError(t *testing.T, err error, field, typ string) {
	t.Helper()
	for _, f := range RequireFieldErrors(t, err) {
		if len(f.Loc) == 2 && f.Loc[0] == "body" && f.Loc[1] == field {
			assert.Equal(t, typ, f.Type, "field %s", field)
			return
		}
	}
	assert.Failf(t, "field error not reported", "no error for body -> %s in %v", field, err)
}
