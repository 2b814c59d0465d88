// Package mapper shapes stored users into their public representation.
package mapper

import "userapi/internal/model"

// UserResource is the public view of a user. It never carries the password
// hash or any other stored field.
type UserResource struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Single maps one user.
func Single(u *model.User) UserResource {
	return UserResource{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Nickname: u.Nickname,
	}
}

// Collection maps users in order. An empty input yields an empty, non-nil slice.
func Collection(users []model.User) []UserResource {
	out := make([]UserResource, 0, len(users))
	for i := range users {
		out = append(out, Single(&users[i]))
	}
	return out
}
