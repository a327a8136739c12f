package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors_Body(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("detail", "Fill all fields")
	fe.Add("password_confirm", "Passwords do not match")

	body := fe.Body()

	// detail is a bare string, field messages stay lists
	assert.Equal(t, "Fill all fields", body["detail"])
	assert.Equal(t, []string{"Passwords do not match"}, body["password_confirm"])
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("title", "This field is required")

	assert.Contains(t, fe.Error(), "title: This field is required")
}
