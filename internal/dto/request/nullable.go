package request

import (
	"encoding/json"

	"support-directory/internal/data/entity"
)

// Nullable distinguishes an absent JSON key from an explicit null: absent
// keys leave it unset, null sets it without a value.
type Nullable[T any] struct {
	entity.Optional[T]
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func Value[T any](v T) Nullable[T] {
	return Nullable[T]{entity.Some(v)}
}
