package domain

import (
	"bytes"
	"fmt"
)

// Rating bounds for a meal.
const (
	MinRating = 0
	MaxRating = 5
)

// Meal is a journal record: a named dish with an optional photo and a star rating.
//
// NewMeal enforces the invariants once. Fields stay exported and may be
// reassigned afterwards; call Validate to re-check them.
type Meal struct {
	Name   string
	Photo  *Photo
	Rating int
}

// Photo is an image blob attached to a meal.
type Photo struct {
	ContentType string
	Data        []byte
}

// NewMeal builds a Meal, failing with ErrEmptyName or ErrRatingOutOfRange
// (both wrapped in a *ValidationError). The name is checked first.
func NewMeal(name string, photo *Photo, rating int) (*Meal, error) {
	m := &Meal{Name: name, Photo: photo, Rating: rating}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate reports the first violated invariant.
func (m *Meal) Validate() error {
	if m.Name == "" {
		return NewFieldError("name", "required", ErrEmptyName)
	}
	if m.Rating < MinRating || m.Rating > MaxRating {
		return NewFieldError("rating",
			fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
			ErrRatingOutOfRange)
	}
	return nil
}

// HasPhoto returns true if a photo with content is attached.
func (m *Meal) HasPhoto() bool {
	return m.Photo != nil && len(m.Photo.Data) > 0
}

// Clone returns a deep copy, photo bytes included.
func (m *Meal) Clone() *Meal {
	if m == nil {
		return nil
	}
	c := *m
	if m.Photo != nil {
		p := *m.Photo
		p.Data = bytes.Clone(m.Photo.Data)
		c.Photo = &p
	}
	return &c
}
