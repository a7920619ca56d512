package entity

import (
	"time"

	"github.com/google/uuid"
)

type BaseNoDelete struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Optional is one field of a sparse write. An unset Optional leaves the
// column untouched; a set one without Valid writes NULL.
type Optional[T any] struct {
	Value T
	Valid bool
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true, Set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// FromPtr sets the field to *p, or to NULL when p is nil.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// Ptr returns nil for unset and NULL fields.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
