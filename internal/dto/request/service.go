package request

import "github.com/google/uuid"

// ServiceRequest is a sparse service payload; only present keys are written.
type ServiceRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Slug          *string             `json:"slug" validate:"omitempty,max=200"`
	Summary       Nullable[string]    `json:"summary"`
	Description   *string             `json:"description"`
	Status        *string             `json:"status" validate:"omitempty,oneof=draft pending approved disabled rejected"`
	ApprovalNotes Nullable[string]    `json:"approval_notes"`
	ProviderID    Nullable[uuid.UUID] `json:"provider_id"`
	CategoryID    Nullable[uuid.UUID] `json:"category_id"`
}

type StatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}
