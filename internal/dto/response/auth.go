package response

import (
	"time"

	"support-directory/internal/data/entity"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Role         entity.Role `json:"role"`
	PhoneNumber  *string     `json:"phone_number"`
	JobTitle     *string     `json:"job_title"`
	Organisation *string     `json:"organisation"`
	Notes        *string     `json:"notes"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type UserResponse struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsActive     bool            `json:"is_active"`
	DateJoined   time.Time       `json:"date_joined"`
	LastLogin    *time.Time      `json:"last_login"`
	LastSignInAt *time.Time      `json:"last_sign_in_at"`
	Profile      ProfileResponse `json:"profile"`
}

type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func UserToResponse(u *entity.AdminUser) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsActive:     u.IsActive,
		DateJoined:   u.DateJoined,
		LastLogin:    u.LastLogin,
		LastSignInAt: u.LastSignInAt,
		Profile: ProfileResponse{
			Role:         u.Profile.Role,
			PhoneNumber:  u.Profile.PhoneNumber,
			JobTitle:     u.Profile.JobTitle,
			Organisation: u.Profile.Organisation,
			Notes:        u.Profile.Notes,
			CreatedAt:    u.Profile.CreatedAt,
			UpdatedAt:    u.Profile.UpdatedAt,
		},
	}
}
