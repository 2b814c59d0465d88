package model

// CreateUserInput is the field set accepted by user creation.
// Nil pointers mean the field was not supplied.
type CreateUserInput struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=191"`
	Nickname string  `json:"nickname" validate:"required,max=30"`
	Email    string  `json:"email" validate:"required,email,max=191"`
	Password *string `json:"password" validate:"omitnil,min=8,max=191"`
}

// UpdateUserInput is the field set accepted by user updates. Only non-nil
// fields are validated and written.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=191"`
	Nickname *string `json:"nickname" validate:"omitnil,min=1,max=30"`
	Email    *string `json:"email" validate:"omitnil,email,max=191"`
	Password *string `json:"password" validate:"omitnil,min=8,max=191"`
}

// IsEmpty reports whether no field was supplied.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Nickname == nil && in.Email == nil && in.Password == nil
}
