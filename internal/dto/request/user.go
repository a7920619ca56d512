package request

type CreateUserRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Username     string  `json:"username" validate:"required,min=3,max=150"`
	FirstName    string  `json:"first_name" validate:"max=150"`
	LastName     string  `json:"last_name" validate:"max=150"`
	Role         string  `json:"role" validate:"required,oneof=user provider moderator admin super_admin"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=32"`
	JobTitle     *string `json:"job_title" validate:"omitempty,max=150"`
	Organisation *string `json:"organisation" validate:"omitempty,max=150"`
	Notes        *string `json:"notes"`
}

// UpdateUserRequest is a sparse account edit. Email, username and names are
// echoed to the identity store as well as the profile row.
type UpdateUserRequest struct {
	Email        *string          `json:"email" validate:"omitempty,email"`
	Username     *string          `json:"username" validate:"omitempty,min=3,max=150"`
	FirstName    *string          `json:"first_name" validate:"omitempty,max=150"`
	LastName     *string          `json:"last_name" validate:"omitempty,max=150"`
	Role         *string          `json:"role" validate:"omitempty,oneof=user provider moderator admin super_admin"`
	IsActive     *bool            `json:"is_active"`
	PhoneNumber  Nullable[string] `json:"phone_number"`
	JobTitle     Nullable[string] `json:"job_title"`
	Organisation Nullable[string] `json:"organisation"`
	Notes        Nullable[string] `json:"notes"`
}
