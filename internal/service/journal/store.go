package journal

import (
	"fmt"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// Store is the ordered meal collection. Insertion order is display order and
// a meal's position is its only identity. Store is not safe for concurrent
// use; Service serializes access to it.
type Store struct {
	meals []*domain.Meal
}

// NewStore creates a Store holding meals in the given order.
func NewStore(meals []*domain.Meal) *Store {
	s := &Store{meals: make([]*domain.Meal, 0, len(meals))}
	s.meals = append(s.meals, meals...)
	return s
}

// Len returns the number of meals.
func (s *Store) Len() int {
	return len(s.meals)
}

// All returns a copy of the ordered sequence. The meals themselves are shared.
func (s *Store) All() []*domain.Meal {
	out := make([]*domain.Meal, len(s.meals))
	copy(out, s.meals)
	return out
}

// At returns the meal at index i.
func (s *Store) At(i int) (*domain.Meal, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	return s.meals[i], nil
}

// Append adds a meal at the end and returns its index.
func (s *Store) Append(m *domain.Meal) int {
	s.meals = append(s.meals, m)
	return len(s.meals) - 1
}

// ReplaceAt swaps the meal at index i, leaving every other position untouched.
func (s *Store) ReplaceAt(i int, m *domain.Meal) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.meals[i] = m
	return nil
}

// RemoveAt deletes the meal at index i; later meals shift down by one.
func (s *Store) RemoveAt(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	copy(s.meals[i:], s.meals[i+1:])
	s.meals[len(s.meals)-1] = nil
	s.meals = s.meals[:len(s.meals)-1]
	return nil
}

func (s *Store) checkIndex(i int) error {
	if i < 0 || i >= len(s.meals) {
		return fmt.Errorf("meal %d of %d: %w", i, len(s.meals), domain.ErrIndexOutOfRange)
	}
	return nil
}
