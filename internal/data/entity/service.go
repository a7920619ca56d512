package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is the services_view row with its provider and category embedded.
type Service struct {
	BaseNoDelete
	Name          string           `db:"name"`
	Slug          string           `db:"slug"`
	Summary       *string          `db:"summary"`
	Description   string           `db:"description"`
	Status        ServiceStatus    `db:"status"`
	ApprovalNotes *string          `db:"approval_notes"`
	ProviderID    *uuid.UUID       `db:"provider_id"`
	CategoryID    *uuid.UUID       `db:"category_id"`
	Provider      *ProviderProfile `db:"provider"`
	Category      *ServiceCategory `db:"category"`
	CreatedBy     *uuid.UUID       `db:"created_by"`
	UpdatedBy     *uuid.UUID       `db:"updated_by"`
	ApprovedBy    *uuid.UUID       `db:"approved_by"`
	ApprovedAt    *time.Time       `db:"approved_at"`
}

type ServiceChanges struct {
	Name          *string
	Slug          *string
	Summary       Optional[string]
	Description   *string
	Status        *ServiceStatus
	ApprovalNotes Optional[string]
	ProviderID    Optional[uuid.UUID]
	CategoryID    Optional[uuid.UUID]
	CreatedBy     Optional[uuid.UUID]
	UpdatedBy     Optional[uuid.UUID]
	ApprovedBy    Optional[uuid.UUID]
	ApprovedAt    Optional[time.Time]
}
