package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"min=6" errorMsg:"Password must be at least 6 characters"`
	Confirm  string `schema:"confirmPassword" validate:"eqfield=Password" errorMsg:"Passwords do not match"`
	Genre    string `validate:"genre"`
}

func TestValidateStruct(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterValidation("genre", ValidateGenre([]string{"Drama", "Horror"})))

	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(v, signupForm{Username: "neo", Password: "secret1", Confirm: "secret1", Genre: "Drama"})
		assert.Empty(t, errs)
	})

	t.Run("invalid", func(t *testing.T) {
		errs := ValidateStruct(v, &signupForm{Password: "abc", Confirm: "abd", Genre: "Western"})
		assert.Equal(t, map[string]string{
			"username":        "This field is required",
			"password":        "Password must be at least 6 characters",
			"confirmPassword": "Passwords do not match",
			"genre":           "Value must be one of the listed genres",
		}, errs)
	})
}
