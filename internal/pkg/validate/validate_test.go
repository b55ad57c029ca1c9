package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(&sample{Email: "nope"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "field 'email' failed 'email'")
		assert.Contains(t, err.Error(), "field 'token' failed 'required'")
	}
	assert.NoError(t, Struct(&sample{Email: "a@b.com", Token: "t"}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("mode", "walking", "oneof=walking driving"))
	err := Var("mode", "flying", "oneof=walking driving")
	assert.EqualError(t, err, "field 'mode' failed 'oneof'")
}
