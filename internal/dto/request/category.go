package request

type CategoryRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string          `json:"slug" validate:"omitempty,max=120"`
	Description Nullable[string] `json:"description"`
}
