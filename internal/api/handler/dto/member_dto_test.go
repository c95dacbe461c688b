package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterMemberRequestValidate(t *testing.T) {
	valid := RegisterMemberRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.org",
		PhoneNumber: "+62 811 000 111",
	}
	assert.NoError(t, valid.Validate())

	invalidEmail := valid
	invalidEmail.Email = "not-an-email"
	assert.Error(t, invalidEmail.Validate())

	missingName := valid
	missingName.FirstName = ""
	assert.Error(t, missingName.Validate())
}

func TestUpdateMemberRequestValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	assert.NoError(t, UpdateMemberRequest{}.Validate())
	assert.NoError(t, UpdateMemberRequest{Email: strPtr("ada@example.org")}.Validate())
	assert.Error(t, UpdateMemberRequest{Email: strPtr("nope")}.Validate())
	assert.Error(t, UpdateMemberRequest{FirstName: strPtr("")}.Validate())
}

func TestUpdateMemberRequestToUpdate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	update := UpdateMemberRequest{Email: strPtr("ada@example.org")}.ToUpdate()

	assert.NotNil(t, update.Email)
	assert.Nil(t, update.FirstName)
	assert.Nil(t, update.LastName)
	assert.Nil(t, update.PhoneNumber)
}
