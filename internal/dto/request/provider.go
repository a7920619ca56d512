package request

import "github.com/google/uuid"

type ProviderRequest struct {
	UserID       Nullable[uuid.UUID] `json:"user_id"`
	DisplayName  *string             `json:"display_name" validate:"omitempty,min=1,max=200"`
	ContactEmail Nullable[string]    `json:"contact_email"`
	PhoneNumber  Nullable[string]    `json:"phone_number"`
	Website      Nullable[string]    `json:"website"`
	Description  Nullable[string]    `json:"description"`
	Address      Nullable[string]    `json:"address"`
	Status       *string             `json:"status" validate:"omitempty,oneof=pending approved disabled rejected"`
}
