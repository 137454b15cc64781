package models

import "github.com/supabase-community/gotrue-go/types"

type Scope int

const (
	AccessScope  Scope = 0
	RefreshScope Scope = 1
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName prefers the name from the identity provider and falls back to
// the email address.
func (user User) DisplayName() string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

func UserFromTypesUser(user types.User) User {
	name, _ := user.UserMetadata["full_name"].(string)

	return User{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  name,
	}
}
