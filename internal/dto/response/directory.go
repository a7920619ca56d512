package response

import (
	"time"

	"support-directory/internal/data/entity"

	"github.com/google/uuid"
)

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProviderUserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
}

type ProviderResponse struct {
	ID           uuid.UUID             `json:"id"`
	User         *ProviderUserResponse `json:"user"`
	DisplayName  string                `json:"display_name"`
	ContactEmail *string               `json:"contact_email"`
	PhoneNumber  *string               `json:"phone_number"`
	Website      *string               `json:"website"`
	Description  *string               `json:"description"`
	Address      *string               `json:"address"`
	Status       entity.ProviderStatus `json:"status"`
	ReviewedBy   *uuid.UUID            `json:"reviewed_by"`
	ReviewedAt   *time.Time            `json:"reviewed_at"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type ServiceResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	Summary       *string              `json:"summary"`
	Description   string               `json:"description"`
	Status        entity.ServiceStatus `json:"status"`
	ApprovalNotes *string              `json:"approval_notes"`
	Provider      *ProviderResponse    `json:"provider"`
	Category      *CategoryResponse    `json:"category"`
	CreatedBy     *uuid.UUID           `json:"created_by"`
	UpdatedBy     *uuid.UUID           `json:"updated_by"`
	ApprovedBy    *uuid.UUID           `json:"approved_by"`
	ApprovedAt    *time.Time           `json:"approved_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func CategoryToResponse(c *entity.ServiceCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ProviderToResponse(p *entity.ProviderProfile) ProviderResponse {
	resp := ProviderResponse{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		ContactEmail: p.ContactEmail,
		PhoneNumber:  p.PhoneNumber,
		Website:      p.Website,
		Description:  p.Description,
		Address:      p.Address,
		Status:       p.Status,
		ReviewedBy:   p.ReviewedBy,
		ReviewedAt:   p.ReviewedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.User != nil {
		resp.User = &ProviderUserResponse{
			ID:        p.User.ID,
			Username:  p.User.Username,
			Email:     p.User.Email,
			Role:      p.User.Role,
			FirstName: p.User.FirstName,
			LastName:  p.User.LastName,
		}
	}
	return resp
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          s.Slug,
		Summary:       s.Summary,
		Description:   s.Description,
		Status:        s.Status,
		ApprovalNotes: s.ApprovalNotes,
		CreatedBy:     s.CreatedBy,
		UpdatedBy:     s.UpdatedBy,
		ApprovedBy:    s.ApprovedBy,
		ApprovedAt:    s.ApprovedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Provider != nil {
		provider := ProviderToResponse(s.Provider)
		resp.Provider = &provider
	}
	if s.Category != nil {
		category := CategoryToResponse(s.Category)
		resp.Category = &category
	}
	return resp
}
