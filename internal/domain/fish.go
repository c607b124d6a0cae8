package domain

import "strings"

// Fish is the persisted record.
type Fish struct {
	// ID is assigned by storage on insert.
	ID int64 `json:"id"`

	// Specie is the species name. Never empty once persisted.
	Specie string `json:"specie"`

	// Size is optional; nil means the size was never recorded.
	Size *float64 `json:"size"`
}

// FishCreate is the payload for creating a Fish.
type FishCreate struct {
	Specie string   `json:"specie" validate:"required,notblank"`
	Size   *float64 `json:"size"`
}

// NewFish builds an unsaved Fish from the create payload.
func (c FishCreate) NewFish() Fish {
	return Fish{
		Specie: c.Specie,
		Size:   c.Size,
	}
}

// FishUpdate is the payload for a partial update.
type FishUpdate struct {
	Specie Optional[string]  `json:"specie"`
	Size   Optional[float64] `json:"size"`
}

// Validate rejects updates that would break the Fish invariants. A null
// specie is treated as absent since the column is not nullable.
func (u FishUpdate) Validate() error {
	if !u.Specie.Set || u.Specie.Null {
		return nil
	}
	if strings.TrimSpace(u.Specie.Value) == "" {
		return &ValidationError{Fields: []FieldError{{
			Field:   "specie",
			Message: "specie must not be empty",
		}}}
	}
	return nil
}

// Empty reports whether the update changes nothing.
func (u FishUpdate) Empty() bool {
	return (!u.Specie.Set || u.Specie.Null) && !u.Size.Set
}

// Apply overwrites the fields present in the update and returns the result.
// Callers are expected to have run Validate first.
func (u FishUpdate) Apply(f Fish) Fish {
	if u.Specie.Set && !u.Specie.Null {
		f.Specie = u.Specie.Value
	}
	if u.Size.Set {
		f.Size = u.Size.Ptr()
	}
	return f
}

// SizeOf is a convenience for building a size pointer.
func SizeOf(v float64) *float64 {
	return &v
}
