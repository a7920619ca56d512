package entity

type ServiceCategory struct {
	BaseNoDelete
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description *string `db:"description" json:"description"`
}

type CategoryChanges struct {
	Name        *string
	Slug        *string
	Description Optional[string]
}
