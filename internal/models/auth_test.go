package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/supabase-community/gotrue-go/types"
	"programme.xdoubleu.com/internal/models"
)

func TestUserFromTypesUser(t *testing.T) {
	id := uuid.New()

	//nolint:exhaustruct //other fields are optional
	user := models.UserFromTypesUser(types.User{
		ID:           id,
		Email:        "user@example.com",
		UserMetadata: map[string]interface{}{"full_name": "Test User"},
	})

	assert.Equal(t, id.String(), user.ID)
	assert.Equal(t, "Test User", user.DisplayName())
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	user := models.User{
		ID:    "1",
		Email: "user@example.com",
		Name:  "",
	}

	assert.Equal(t, "user@example.com", user.DisplayName())
}
