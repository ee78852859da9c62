package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `json:"email_address" validate:"required,email"`
	Password string `json:"plainPassword" validate:"required,min=8"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(registerPayload{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["Email"])
	assert.Equal(t, "must be at least 8 characters long", details["Password"])
}

func TestToDetails_RequiredFields(t *testing.T) {
	v := validator.New()

	err := v.Struct(registerPayload{})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["Email"])
	assert.Equal(t, "is required", details["Password"])
}

func TestToDetails_NilAndUnknown(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
