package request

// ListRequest carries the filters and page of a list call. Search only ever
// arrives in a request body.
type ListRequest struct {
	Page       *int   `json:"page"`
	PageSize   *int   `json:"page_size"`
	Search     string `json:"search" validate:"max=200"`
	Status     string `json:"status"`
	Category   string `json:"category" validate:"omitempty,uuid"`
	AdminsOnly bool   `json:"admins_only"`
}
